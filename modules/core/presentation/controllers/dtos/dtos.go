// Package dtos holds the wire shapes of the core API.
package dtos

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
)

var Validate = validator.New()

type CompanyResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID(),
		Name:         c.Name(),
		IsSuperAdmin: c.IsSuperAdmin(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}

type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	IsSuperAdmin *bool   `json:"is_super_admin"`
}

type CompanyDeleteResponse struct {
	DeletedOrganizations int64 `json:"deleted_organizations"`
	DeletedProjects      int64 `json:"deleted_projects"`
	DeletedEvents        int64 `json:"deleted_events"`
	DeletedImages        int64 `json:"deleted_images"`
	DeletedPersonnel     int64 `json:"deleted_personnel"`
	DetachedUsers        int64 `json:"detached_users"`
}

type OrganizationResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Details   string `json:"details,omitempty"`
	CompanyID *uint  `json:"company_id"`
}

func ToOrganizationResponse(o *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID(),
		Name:      o.Name(),
		Details:   o.Details(),
		CompanyID: o.CompanyID(),
	}
}

type CreateOrganizationRequest struct {
	Name      string `json:"name" validate:"required"`
	Details   string `json:"details"`
	CompanyID *uint  `json:"company_id"`
}

type UpdateOrganizationRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Details *string `json:"details"`
}

type AttachCompanyRequest struct {
	CompanyID *uint `json:"company_id"`
}

type AttachOrganizationRequest struct {
	OrganizationID *uint `json:"organization_id"`
}

type OrganizationDeleteResponse struct {
	DeletedProjects int64 `json:"deleted_projects"`
	DeletedEvents   int64 `json:"deleted_events"`
	DeletedImages   int64 `json:"deleted_images"`
}

type UserResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Access         string `json:"access"`
	Avatar         string `json:"avatar"`
	CompanyID      *uint  `json:"company_id"`
	OrganizationID *uint  `json:"organization_id"`
}

func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:             u.ID(),
		Name:           u.Name(),
		Email:          u.Email(),
		Access:         string(u.Access()),
		Avatar:         u.Avatar(),
		CompanyID:      u.CompanyID(),
		OrganizationID: u.OrganizationID(),
	}
}

type CreateUserRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Access          string `json:"access" validate:"required"`
	Avatar          string `json:"avatar"`
	CompanyID       *uint  `json:"company_id"`
	OrganizationID  *uint  `json:"organization_id"`
	CreatePersonnel bool   `json:"create_personnel"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1"`
	Access *string `json:"access"`
	Avatar *string `json:"avatar"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type UserDeleteResponse struct {
	DeletedPersonnel bool `json:"deleted_personnel"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PersonnelResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Role           string `json:"role,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	CompanyID      *uint  `json:"company_id"`
	UserID         *uint  `json:"user_id"`
	EventIDs       []uint `json:"event_ids,omitempty"`
	ProjectIDs     []uint `json:"project_ids,omitempty"`
	ShotRequestIDs []uint `json:"shot_request_ids,omitempty"`
}

func ToPersonnelResponse(p *personnel.Personnel) PersonnelResponse {
	return PersonnelResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Email:     p.Email(),
		Phone:     p.Phone(),
		Role:      p.Role(),
		Avatar:    p.Avatar(),
		CompanyID: p.CompanyID(),
		UserID:    p.UserID(),
	}
}
