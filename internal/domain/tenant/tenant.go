package tenant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName = errors.New("tenant name cannot be empty")
)

// Tenant is an isolated customer account and the unit of data partitioning.
// Tenants are created once and never mutated or deleted.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTenant creates a new tenant with the given display name
func NewTenant(name string) (*Tenant, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Tenant{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}
