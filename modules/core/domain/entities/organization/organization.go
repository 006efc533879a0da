package organization

import "context"

// Organization is a client account under a company; it commissions projects.
type Organization struct {
	id        uint
	name      string
	details   string
	companyID *uint
}

type Option func(*Organization)

func WithID(id uint) Option {
	return func(o *Organization) {
		o.id = id
	}
}

func WithDetails(details string) Option {
	return func(o *Organization) {
		o.details = details
	}
}

func WithCompanyID(companyID *uint) Option {
	return func(o *Organization) {
		o.companyID = companyID
	}
}

func New(name string, opts ...Option) *Organization {
	o := &Organization{name: name}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Organization) ID() uint         { return o.id }
func (o *Organization) Name() string     { return o.name }
func (o *Organization) Details() string  { return o.details }
func (o *Organization) CompanyID() *uint { return o.companyID }

// Patch enumerates the mutable fields. The company link is tenancy identity
// and changes only through a dedicated operation.
type Patch struct {
	Name    *string
	Details *string
}

func (o *Organization) Apply(p Patch) {
	if p.Name != nil {
		o.name = *p.Name
	}
	if p.Details != nil {
		o.details = *p.Details
	}
}

// AttachCompany is the dedicated operation for moving an organization into a
// company.
func (o *Organization) AttachCompany(companyID *uint) {
	o.companyID = companyID
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Organization, error)
	GetByID(ctx context.Context, id uint) (*Organization, error)
	Create(ctx context.Context, o *Organization) (*Organization, error)
	Update(ctx context.Context, o *Organization) (*Organization, error)
	Delete(ctx context.Context, id uint) error
	IDsByCompany(ctx context.Context, companyID uint) ([]uint, error)
}
