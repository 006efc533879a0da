package company

import (
	"time"
)

// Company is the top-level tenant boundary. Exactly one company carries the
// super-admin flag and represents the platform operator.
type Company struct {
	id           uint
	name         string
	isSuperAdmin bool
	createdAt    time.Time
	updatedAt    time.Time
}

type Option func(*Company)

func WithID(id uint) Option {
	return func(c *Company) {
		c.id = id
	}
}

func WithSuperAdmin(isSuperAdmin bool) Option {
	return func(c *Company) {
		c.isSuperAdmin = isSuperAdmin
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(c *Company) {
		c.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(c *Company) {
		c.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Company {
	c := &Company{
		name:      name,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Company) ID() uint             { return c.id }
func (c *Company) Name() string         { return c.name }
func (c *Company) IsSuperAdmin() bool   { return c.isSuperAdmin }
func (c *Company) CreatedAt() time.Time { return c.createdAt }
func (c *Company) UpdatedAt() time.Time { return c.updatedAt }

// Patch enumerates the mutable fields. Identity is never patchable.
type Patch struct {
	Name         *string
	IsSuperAdmin *bool
}

func (c *Company) Apply(p Patch) {
	if p.Name != nil {
		c.name = *p.Name
	}
	if p.IsSuperAdmin != nil {
		c.isSuperAdmin = *p.IsSuperAdmin
	}
	c.updatedAt = time.Now()
}
