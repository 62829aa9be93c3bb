package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository implements shared.Repository for any GORM model, with the
// listing behaviour described by its QuerySpec.
type GormRepository[T any] struct {
	db   *gorm.DB
	spec QuerySpec
}

// NewGormRepository creates a repository for T
func NewGormRepository[T any](db *gorm.DB, spec QuerySpec) *GormRepository[T] {
	if spec.DefaultSort == "" {
		spec.DefaultSort = "created_at DESC"
	}
	return &GormRepository[T]{db: db, spec: spec}
}

// FindByID finds a record by its ID within scope
func (r *GormRepository[T]) FindByID(ctx context.Context, id uuid.UUID, scope shared.Scope) (*T, error) {
	var entity T
	query := r.withPreloads(r.scoped(ctx, scope))
	if err := query.First(&entity, "id = ?", id).Error; err != nil {
		return nil, r.translate(err)
	}
	populate(&entity)
	return &entity, nil
}

// FindAll lists records matching the filter within scope, with the total
// number of matches before pagination.
func (r *GormRepository[T]) FindAll(ctx context.Context, filter shared.Filter, scope shared.Scope) ([]T, int64, error) {
	order, err := ResolveOrdering(filter.Ordering, r.spec.Sorts, r.spec.DefaultSort)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery, err := r.applyFilter(r.scoped(ctx, scope), filter)
	if err != nil {
		return nil, 0, err
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.spec.Resource, err)
	}

	items := make([]T, 0)
	query, err := r.applyFilter(r.scoped(ctx, scope), filter)
	if err != nil {
		return nil, 0, err
	}
	query = r.withPreloads(query).Order(order)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.spec.Resource, err)
	}
	for i := range items {
		populate(&items[i])
	}
	return items, total, nil
}

// Create inserts a new record
func (r *GormRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return r.translate(err)
	}
	return nil
}

// Save replaces all columns of an existing record
func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return r.translate(err)
	}
	return nil
}

// Delete removes a record within scope. Dependent rows go with it through
// the foreign keys' cascade rules.
func (r *GormRepository[T]) Delete(ctx context.Context, id uuid.UUID, scope shared.Scope) error {
	result := r.scoped(ctx, scope).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return r.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return r.notFound()
	}
	return nil
}

// ExistsBy reports whether a row other than excludeID matches all columns
func (r *GormRepository[T]) ExistsBy(ctx context.Context, columns map[string]any, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	for column, value := range columns {
		query = query.Where(column+" = ?", value)
	}
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository[T]) scoped(ctx context.Context, scope shared.Scope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(new(T))
	if scope.IsScoped() && r.spec.OwnerColumn != "" {
		query = query.Where(r.spec.OwnerColumn+" = ?", scope.Owner)
	}
	return query
}

func (r *GormRepository[T]) applyFilter(query *gorm.DB, filter shared.Filter) (*gorm.DB, error) {
	query = r.spec.applySearch(query, filter.Search)
	return r.spec.applyFilters(query, filter.Filters)
}

func (r *GormRepository[T]) withPreloads(query *gorm.DB) *gorm.DB {
	for _, p := range r.spec.Preloads {
		query = query.Preload(p)
	}
	return query
}

func (r *GormRepository[T]) notFound() error {
	if r.spec.Resource == "" {
		return shared.ErrNotFound
	}
	return shared.NewNotFoundError(r.spec.Resource)
}

// translate maps driver errors onto domain errors
func (r *GormRepository[T]) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.notFound()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError(r.spec.Resource + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewValidationError(shared.FieldError{Field: "non_field_errors", Message: "Referenced record does not exist"})
	default:
		return err
	}
}

// populate fills the read view of entity when it has one
func populate[T any](entity *T) {
	if v, ok := any(entity).(shared.Viewable); ok {
		v.PopulateView()
	}
}

// GormReferenceChecker implements shared.ReferenceChecker
type GormReferenceChecker struct {
	db *gorm.DB
}

// NewGormReferenceChecker creates a reference checker
func NewGormReferenceChecker(db *gorm.DB) *GormReferenceChecker {
	return &GormReferenceChecker{db: db}
}

// Exists reports whether table holds a row with id
func (c *GormReferenceChecker) Exists(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Table(table).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s reference: %w", table, err)
	}
	return count > 0, nil
}
