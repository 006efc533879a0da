// Package dtos holds the wire shapes of the provisioning API.
package dtos

import (
	"time"

	"github.com/go-playground/validator/v10"

	coredtos "github.com/relayhq/relay-server/modules/core/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/provisioning/domain/accessrequest"
)

var Validate = validator.New()

type AccessRequestResponse struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Organization    string     `json:"organization"`
	Phone           string     `json:"phone,omitempty"`
	RequestedAccess string     `json:"requested_access,omitempty"`
	Message         string     `json:"message,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ProcessedAt     *time.Time `json:"processed_at"`
	ProcessedBy     *uint      `json:"processed_by"`
}

func ToAccessRequestResponse(r *accessrequest.AccessRequest) AccessRequestResponse {
	return AccessRequestResponse{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Organization:    r.Organization,
		Phone:           r.Phone,
		RequestedAccess: r.RequestedAccess,
		Message:         r.Message,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		ProcessedAt:     r.ProcessedAt,
		ProcessedBy:     r.ProcessedBy,
	}
}

type CreateAccessRequestRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Organization    string `json:"organization" validate:"required"`
	Phone           string `json:"phone"`
	RequestedAccess string `json:"requested_access"`
	Message         string `json:"message"`
}

// ProcessAccessRequestRequest is the approve/deny body. The fields beyond
// action/processed_by only matter on approve: they scope and shape the
// provisioned account.
type ProcessAccessRequestRequest struct {
	Action            string `json:"action" validate:"required,oneof=approve deny"`
	ProcessedBy       *uint  `json:"processed_by"`
	Role              string `json:"role"`
	Avatar            string `json:"avatar"`
	OrganizationID    *uint  `json:"organization_id"`
	TemporaryPassword string `json:"temporary_password"`
	CreatePersonnel   bool   `json:"create_personnel"`
	Phone             string `json:"phone"`
}

type ApprovalResponse struct {
	Request   AccessRequestResponse `json:"request"`
	User      coredtos.UserResponse `json:"user"`
	EmailSent bool                  `json:"email_sent"`
}
