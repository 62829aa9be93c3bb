package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base interface for all repositories
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID, scope Scope) (*T, error)
	FindAll(ctx context.Context, filter Filter, scope Scope) ([]T, int64, error)
	Create(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID, scope Scope) error
	// ExistsBy reports whether another row matches all columns.
	ExistsBy(ctx context.Context, columns map[string]any, excludeID uuid.UUID) (bool, error)
}

// ReferenceChecker verifies that a referenced row exists
type ReferenceChecker interface {
	Exists(ctx context.Context, table string, id uuid.UUID) (bool, error)
}

// Scope restricts queries to rows owned by one identity.
// The zero value is unscoped.
type Scope struct {
	Owner uuid.UUID
}

// Unscoped returns a scope that sees every row
func Unscoped() Scope {
	return Scope{}
}

// OwnedBy returns a scope limited to rows owned by id
func OwnedBy(id uuid.UUID) Scope {
	return Scope{Owner: id}
}

// IsScoped reports whether the scope restricts by owner
func (s Scope) IsScoped() bool {
	return s.Owner != uuid.Nil
}

// Filter represents query filter options. Ordering names a declared sort
// key, prefixed with "-" for descending order.
type Filter struct {
	Page     int
	PageSize int
	Ordering string
	Search   string
	Filters  map[string]string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		Filters:  make(map[string]string),
	}
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Reference is a foreign key a record points at
type Reference struct {
	Field    string
	Table    string
	ID       uuid.UUID
	Optional bool
}

// Referencer is implemented by records holding foreign keys
type Referencer interface {
	References() []Reference
}

// UniqueKey is a set of columns that must not repeat across rows
type UniqueKey struct {
	Columns map[string]any
	// Fields lists the request fields reported on violation, in order.
	Fields []string
}

// Unique builds a single-column unique key
func Unique(column string, value any) UniqueKey {
	return UniqueKey{Columns: map[string]any{column: value}, Fields: []string{column}}
}

// UniqueTogether builds a composite unique key from column/value pairs
func UniqueTogether(pairs ...any) UniqueKey {
	key := UniqueKey{Columns: make(map[string]any, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		col := pairs[i].(string)
		key.Columns[col] = pairs[i+1]
		key.Fields = append(key.Fields, col)
	}
	return key
}

// UniqueConstrained is implemented by records with uniqueness rules
type UniqueConstrained interface {
	UniqueKeys() []UniqueKey
}
