package shotrequest

import (
	"context"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
)

// ShotRequest is a client-requested capture. It can be attached to many
// events and projects; its images are cascade-deleted with it.
type ShotRequest struct {
	ID           uint
	Request      string
	Notes        string
	QuickTurn    bool
	StartTime    string
	EndTime      string
	Deadline     string
	ProcessPoint process.Point
}

type Patch struct {
	Request      *string
	Notes        *string
	QuickTurn    *bool
	StartTime    *string
	EndTime      *string
	Deadline     *string
	ProcessPoint *process.Point
}

func (s *ShotRequest) Apply(p Patch) {
	if p.Request != nil {
		s.Request = *p.Request
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.QuickTurn != nil {
		s.QuickTurn = *p.QuickTurn
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Deadline != nil {
		s.Deadline = *p.Deadline
	}
	if p.ProcessPoint != nil {
		s.ProcessPoint = *p.ProcessPoint
	}
}

type Repository interface {
	GetAll(ctx context.Context) ([]*ShotRequest, error)
	GetByID(ctx context.Context, id uint) (*ShotRequest, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, s *ShotRequest) (*ShotRequest, error)
	Update(ctx context.Context, s *ShotRequest) (*ShotRequest, error)
	Delete(ctx context.Context, id uint) error
}
