package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all persisted records
type Entity interface {
	GetID() uuid.UUID
	Base() *BaseEntity
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Base exposes the embedded base so generic code can manage identity fields
func (e *BaseEntity) Base() *BaseEntity {
	return e
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Authored records the identity that created a record.
type Authored struct {
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
}

// SetCreator stamps the creating identity
func (a *Authored) SetCreator(id uuid.UUID) {
	a.CreatedBy = id
}

// Creator returns the creating identity
func (a *Authored) Creator() uuid.UUID {
	return a.CreatedBy
}

// Creatable is implemented by records carrying a server-stamped creator.
type Creatable interface {
	SetCreator(id uuid.UUID)
	Creator() uuid.UUID
}

// Normalizer applies defaults and recomputes derived fields before a write.
type Normalizer interface {
	Normalize()
}

// Validatable checks rules that binding tags cannot express.
type Validatable interface {
	Validate() error
}

// Stamper sets server-managed fields on every write.
type Stamper interface {
	Stamp(actor uuid.UUID, now time.Time)
}

// CreateStamper sets server-managed fields once, at creation.
type CreateStamper interface {
	StampCreate(now time.Time)
}

// Inheritor carries server-managed fields from the stored version of a
// record onto its replacement.
type Inheritor[T any] interface {
	Inherit(prev *T)
}

// Viewable fills read-only display fields once associations are loaded.
type Viewable interface {
	PopulateView()
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
