package project

import "context"

// Project is a commissioned production under an organization. Events belong
// to it and are cascade-deleted with it.
type Project struct {
	ID             uint
	Name           string
	Location       string
	StartDate      string
	EndDate        string
	DeliverDate    string
	OrganizationID *uint
}

// Patch enumerates the mutable fields; the organization link moves only
// through a dedicated operation.
type Patch struct {
	Name        *string
	Location    *string
	StartDate   *string
	EndDate     *string
	DeliverDate *string
}

func (p *Project) Apply(patch Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.DeliverDate != nil {
		p.DeliverDate = *patch.DeliverDate
	}
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Project, error)
	GetByID(ctx context.Context, id uint) (*Project, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, p *Project) (*Project, error)
	Update(ctx context.Context, p *Project) (*Project, error)
	Delete(ctx context.Context, id uint) error
	AttachOrganization(ctx context.Context, id uint, organizationID *uint) error
	IDsByOrganization(ctx context.Context, organizationID uint) ([]uint, error)
}
