// Package crud implements the write pipeline and queries shared by every
// back-office resource.
package crud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Paging limits applied to list requests
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Record constrains P to the pointer type of a persisted entity T
type Record[T any] interface {
	*T
	shared.Entity
}

// Config describes one resource
type Config struct {
	// Resource is the display name used in conflict messages, e.g. "Product".
	Resource string
	// OwnerScoped limits every query to rows owned by the acting identity.
	OwnerScoped bool
	// Clock overrides time.Now.
	Clock func() time.Time
}

// Service exposes list, get, create, update, patch and delete over one
// repository. Writes run stamp, normalize, validate, reference and
// uniqueness checks before anything is persisted.
type Service[T any, P Record[T]] struct {
	repo shared.Repository[T]
	refs shared.ReferenceChecker
	cfg  Config
}

// NewService creates a Service for T
func NewService[T any, P Record[T]](repo shared.Repository[T], refs shared.ReferenceChecker, cfg Config) *Service[T, P] {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Service[T, P]{repo: repo, refs: refs, cfg: cfg}
}

// Resource returns the display name of the resource
func (s *Service[T, P]) Resource() string {
	return s.cfg.Resource
}

// List returns one page of records matching filter
func (s *Service[T, P]) List(ctx context.Context, actor uuid.UUID, filter shared.Filter) (shared.Paginated[T], error) {
	scope, err := s.scope(actor)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	filter = clampPage(filter)

	items, total, err := s.repo.FindAll(ctx, filter, scope)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one record visible to actor
func (s *Service[T, P]) Get(ctx context.Context, actor, id uuid.UUID) (*T, error) {
	scope, err := s.scope(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, scope)
}

// Create persists a new record on behalf of actor
func (s *Service[T, P]) Create(ctx context.Context, actor uuid.UUID, entity *T) (*T, error) {
	if _, err := s.scope(actor); err != nil {
		return nil, err
	}
	now := s.cfg.Clock()

	base := P(entity).Base()
	base.ID = uuid.New()
	base.CreatedAt = now
	base.UpdatedAt = now
	if c, ok := any(entity).(shared.Creatable); ok {
		c.SetCreator(actor)
	}
	if c, ok := any(entity).(shared.CreateStamper); ok {
		c.StampCreate(now)
	}

	if err := s.prepare(ctx, actor, now, entity); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return s.reload(ctx, actor, base.ID)
}

// Update replaces every caller-settable field of the record with id
func (s *Service[T, P]) Update(ctx context.Context, actor, id uuid.UUID, entity *T) (*T, error) {
	prev, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, actor, prev, entity)
}

// Patch applies a partial change to the stored record with id. apply
// receives a separately loaded copy of the stored record and merges the
// request onto it, so pointer and slice fields never alias the original.
func (s *Service[T, P]) Patch(ctx context.Context, actor, id uuid.UUID, apply func(*T) error) (*T, error) {
	prev, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	next, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := apply(next); err != nil {
		return nil, err
	}
	return s.replace(ctx, actor, prev, next)
}

// Delete removes the record with id
func (s *Service[T, P]) Delete(ctx context.Context, actor, id uuid.UUID) error {
	scope, err := s.scope(actor)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, scope)
}

func (s *Service[T, P]) replace(ctx context.Context, actor uuid.UUID, prev, entity *T) (*T, error) {
	now := s.cfg.Clock()

	old := P(prev).Base()
	base := P(entity).Base()
	base.ID = old.ID
	base.CreatedAt = old.CreatedAt
	base.UpdatedAt = now
	if c, ok := any(entity).(shared.Creatable); ok {
		c.SetCreator(any(prev).(shared.Creatable).Creator())
	}
	if h, ok := any(entity).(shared.Inheritor[T]); ok {
		h.Inherit(prev)
	}

	if err := s.prepare(ctx, actor, now, entity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		return nil, err
	}
	return s.reload(ctx, actor, base.ID)
}

// prepare runs the checks shared by every write, in order: stamping,
// normalization, record rules, references and uniqueness.
func (s *Service[T, P]) prepare(ctx context.Context, actor uuid.UUID, now time.Time, entity *T) error {
	if st, ok := any(entity).(shared.Stamper); ok {
		st.Stamp(actor, now)
	}
	if n, ok := any(entity).(shared.Normalizer); ok {
		n.Normalize()
	}
	if v, ok := any(entity).(shared.Validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if r, ok := any(entity).(shared.Referencer); ok {
		if err := s.checkReferences(ctx, r.References()); err != nil {
			return err
		}
	}
	if u, ok := any(entity).(shared.UniqueConstrained); ok {
		if err := s.checkUnique(ctx, P(entity).GetID(), u.UniqueKeys()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service[T, P]) checkReferences(ctx context.Context, refs []shared.Reference) error {
	var details []shared.FieldError
	for _, ref := range refs {
		if ref.ID == uuid.Nil {
			if !ref.Optional {
				details = append(details, shared.FieldError{Field: ref.Field, Message: "This field is required."})
			}
			continue
		}
		ok, err := s.refs.Exists(ctx, ref.Table, ref.ID)
		if err != nil {
			return err
		}
		if !ok {
			details = append(details, shared.FieldError{
				Field:   ref.Field,
				Message: fmt.Sprintf("Invalid pk %q - object does not exist.", ref.ID.String()),
			})
		}
	}
	if len(details) > 0 {
		return shared.NewValidationError(details...)
	}
	return nil
}

func (s *Service[T, P]) checkUnique(ctx context.Context, id uuid.UUID, keys []shared.UniqueKey) error {
	for _, key := range keys {
		taken, err := s.repo.ExistsBy(ctx, key.Columns, id)
		if err != nil {
			return fmt.Errorf("check %s uniqueness: %w", strings.ToLower(s.cfg.Resource), err)
		}
		if taken {
			return shared.NewConflictError(conflictMessage(s.cfg.Resource, key.Fields), key.Fields...)
		}
	}
	return nil
}

func (s *Service[T, P]) reload(ctx context.Context, actor, id uuid.UUID) (*T, error) {
	entity, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", strings.ToLower(s.cfg.Resource), err)
	}
	return entity, nil
}

// scope resolves the visibility of actor. Owner-scoped resources need an
// identity.
func (s *Service[T, P]) scope(actor uuid.UUID) (shared.Scope, error) {
	if !s.cfg.OwnerScoped {
		return shared.Unscoped(), nil
	}
	if actor == uuid.Nil {
		return shared.Scope{}, shared.ErrUnauthorized
	}
	return shared.OwnedBy(actor), nil
}

func clampPage(f shared.Filter) shared.Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func conflictMessage(resource string, fields []string) string {
	if len(fields) == 1 {
		return fmt.Sprintf("%s with this %s already exists.", resource, strings.ReplaceAll(fields[0], "_", " "))
	}
	return fmt.Sprintf("The fields %s must make a unique set.", strings.Join(fields, ", "))
}
