package accessrequest

import (
	"context"
	"time"
)

// Status of an access request. Pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// AccessRequest is an external ask to join the platform. Organization is the
// requester's free-text organization name, not yet an organization record.
type AccessRequest struct {
	ID              uint
	Name            string
	Email           string
	Organization    string
	Phone           string
	RequestedAccess string
	Message         string
	Status          Status
	CreatedAt       time.Time
	ProcessedAt     *time.Time
	ProcessedBy     *uint
}

func (r *AccessRequest) Pending() bool {
	return r.Status == StatusPending
}

type Repository interface {
	ListPending(ctx context.Context) ([]*AccessRequest, error)
	GetByID(ctx context.Context, id uint) (*AccessRequest, error)
	ExistsPendingByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, r *AccessRequest) (*AccessRequest, error)
	// TransitionFromPending writes the terminal status if and only if the
	// stored status is still pending (compare-and-set inside the caller's
	// transaction). It returns false when the request was already processed.
	TransitionFromPending(ctx context.Context, id uint, to Status, processedAt time.Time, processedBy *uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}
