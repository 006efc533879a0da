package user

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
)

// Role is the access level granted to a user account.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleClient       Role = "Client"
	RoleCoordinator  Role = "Coordinator"
	RolePhotographer Role = "Photographer"
	RoleVideographer Role = "Videographer"
	RoleEditor       Role = "Editor"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleClient, RoleCoordinator, RolePhotographer, RoleVideographer, RoleEditor:
		return Role(s), true
	}
	return "", false
}

const DefaultAvatar = "avatar1.png"

type User struct {
	id             uint
	name           string
	email          string
	passwordHash   string
	access         Role
	avatar         string
	companyID      *uint
	organizationID *uint
}

type Option func(*User)

func WithID(id uint) Option {
	return func(u *User) {
		u.id = id
	}
}

func WithPasswordHash(hash string) Option {
	return func(u *User) {
		u.passwordHash = hash
	}
}

func WithAvatar(avatar string) Option {
	return func(u *User) {
		u.avatar = avatar
	}
}

func WithCompanyID(companyID *uint) Option {
	return func(u *User) {
		u.companyID = companyID
	}
}

func WithOrganizationID(organizationID *uint) Option {
	return func(u *User) {
		u.organizationID = organizationID
	}
}

func New(name, email string, access Role, opts ...Option) *User {
	u := &User{
		name:   name,
		email:  email,
		access: access,
		avatar: DefaultAvatar,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *User) ID() uint              { return u.id }
func (u *User) Name() string          { return u.name }
func (u *User) Email() string         { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Access() Role          { return u.access }
func (u *User) Avatar() string        { return u.avatar }
func (u *User) CompanyID() *uint      { return u.companyID }
func (u *User) OrganizationID() *uint { return u.organizationID }

// SetPassword hashes and stores the credential. The plaintext is never kept.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.passwordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// IsSuperAdmin and IsCompanyAdmin are derived predicates, recomputed from
// loaded state on every read and never persisted.
func IsSuperAdmin(u *User, c *company.Company) bool {
	return c != nil && c.IsSuperAdmin() && u.access == RoleAdmin
}

func IsCompanyAdmin(u *User, c *company.Company) bool {
	return u.access == RoleAdmin && !IsSuperAdmin(u, c)
}

// Patch enumerates the mutable profile fields. Email, password and tenancy
// links change through dedicated operations.
type Patch struct {
	Name   *string
	Access *Role
	Avatar *string
}

func (u *User) Apply(p Patch) {
	if p.Name != nil {
		u.name = *p.Name
	}
	if p.Access != nil {
		u.access = *p.Access
	}
	if p.Avatar != nil {
		u.avatar = *p.Avatar
	}
}

// AttachCompany and AttachOrganization are the dedicated tenancy operations.
func (u *User) AttachCompany(companyID *uint) {
	u.companyID = companyID
}

func (u *User) AttachOrganization(organizationID *uint) {
	u.organizationID = organizationID
}

type Repository interface {
	GetAll(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id uint) error
	DetachCompany(ctx context.Context, companyID uint) (int64, error)
}
