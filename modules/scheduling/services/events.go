package services

import (
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
)

type ProjectCreatedEvent struct {
	Project *project.Project
}

type ProjectUpdatedEvent struct {
	Project *project.Project
}

type ProjectDeletedEvent struct {
	ProjectID uint
	Report    *ProjectDeleteReport
}

type EventCreatedEvent struct {
	Event *event.Event
}

type EventUpdatedEvent struct {
	Event *event.Event
}

type EventDeletedEvent struct {
	EventID       uint
	DeletedImages int64
}

type ShotRequestCreatedEvent struct {
	ShotRequest *shotrequest.ShotRequest
}

type ShotRequestUpdatedEvent struct {
	ShotRequest *shotrequest.ShotRequest
}

type ShotRequestDeletedEvent struct {
	ShotRequestID uint
	DeletedImages int64
}

type ImageCreatedEvent struct {
	Image *image.Image
}

type ImageUpdatedEvent struct {
	Image *image.Image
}

type ImageDeletedEvent struct {
	ImageID uint
}

// PersonnelAssignedEvent fires after a crew member's event set is replaced
// and the project memberships are rederived.
type PersonnelAssignedEvent struct {
	PersonnelID uint
	EventIDs    []uint
	ProjectIDs  []uint
}
