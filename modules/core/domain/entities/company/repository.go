package company

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]*Company, error)
	GetByID(ctx context.Context, id uint) (*Company, error)
	GetByName(ctx context.Context, name string) (*Company, error)
	ExistsOtherSuperAdmin(ctx context.Context, excludeID uint) (bool, error)
	Create(ctx context.Context, c *Company) (*Company, error)
	Update(ctx context.Context, c *Company) (*Company, error)
	Delete(ctx context.Context, id uint) error
}
