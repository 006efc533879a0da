package personnel

import "context"

// Personnel is a staffable crew member. It may be linked 1:1 to a user
// account; the company of both sides must agree.
type Personnel struct {
	id        uint
	name      string
	email     string
	phone     string
	role      string
	avatar    string
	companyID *uint
	userID    *uint
}

type Option func(*Personnel)

func WithID(id uint) Option {
	return func(p *Personnel) {
		p.id = id
	}
}

func WithEmail(email string) Option {
	return func(p *Personnel) {
		p.email = email
	}
}

func WithPhone(phone string) Option {
	return func(p *Personnel) {
		p.phone = phone
	}
}

func WithRole(role string) Option {
	return func(p *Personnel) {
		p.role = role
	}
}

func WithAvatar(avatar string) Option {
	return func(p *Personnel) {
		p.avatar = avatar
	}
}

func WithCompanyID(companyID *uint) Option {
	return func(p *Personnel) {
		p.companyID = companyID
	}
}

func WithUserID(userID *uint) Option {
	return func(p *Personnel) {
		p.userID = userID
	}
}

func New(name string, opts ...Option) *Personnel {
	p := &Personnel{name: name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Personnel) ID() uint         { return p.id }
func (p *Personnel) Name() string     { return p.name }
func (p *Personnel) Email() string    { return p.email }
func (p *Personnel) Phone() string    { return p.phone }
func (p *Personnel) Role() string     { return p.role }
func (p *Personnel) Avatar() string   { return p.avatar }
func (p *Personnel) CompanyID() *uint { return p.companyID }
func (p *Personnel) UserID() *uint    { return p.userID }

type Patch struct {
	Name   *string
	Email  *string
	Phone  *string
	Role   *string
	Avatar *string
}

func (p *Personnel) Apply(patch Patch) {
	if patch.Name != nil {
		p.name = *patch.Name
	}
	if patch.Email != nil {
		p.email = *patch.Email
	}
	if patch.Phone != nil {
		p.phone = *patch.Phone
	}
	if patch.Role != nil {
		p.role = *patch.Role
	}
	if patch.Avatar != nil {
		p.avatar = *patch.Avatar
	}
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Personnel, error)
	GetByID(ctx context.Context, id uint) (*Personnel, error)
	GetByUserID(ctx context.Context, userID uint) (*Personnel, error)
	Create(ctx context.Context, p *Personnel) (*Personnel, error)
	Update(ctx context.Context, p *Personnel) (*Personnel, error)
	Delete(ctx context.Context, id uint) error
	DeleteByCompany(ctx context.Context, companyID uint) (int64, error)
}
