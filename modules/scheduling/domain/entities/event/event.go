package event

import (
	"context"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
)

// Event is a scheduled shoot under a project. Images belong to it and are
// cascade-deleted with it.
type Event struct {
	ID           uint
	Name         string
	Date         string
	StartTime    string
	EndTime      string
	Location     string
	Notes        string
	QuickTurn    bool
	Deadline     string
	ProcessPoint process.Point
	// ColumnNumber is a client-side layout hint (0-3), stored verbatim.
	ColumnNumber int
	ProjectID    *uint
}

type Patch struct {
	Name         *string
	Date         *string
	StartTime    *string
	EndTime      *string
	Location     *string
	Notes        *string
	QuickTurn    *bool
	Deadline     *string
	ProcessPoint *process.Point
	ColumnNumber *int
}

func (e *Event) Apply(p Patch) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.QuickTurn != nil {
		e.QuickTurn = *p.QuickTurn
	}
	if p.Deadline != nil {
		e.Deadline = *p.Deadline
	}
	if p.ProcessPoint != nil {
		e.ProcessPoint = *p.ProcessPoint
	}
	if p.ColumnNumber != nil {
		e.ColumnNumber = *p.ColumnNumber
	}
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id uint) (*Event, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Event, error)
	Create(ctx context.Context, e *Event) (*Event, error)
	Update(ctx context.Context, e *Event) (*Event, error)
	Delete(ctx context.Context, id uint) error
	AttachProject(ctx context.Context, id uint, projectID *uint) error
	IDsByProject(ctx context.Context, projectID uint) ([]uint, error)
	ListByPersonnel(ctx context.Context, personnelID uint, date string) ([]*Event, error)
}
