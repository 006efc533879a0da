// Package assignment owns the many-to-many membership edges between
// personnel, events, projects and shot requests.
package assignment

import "context"

// Repository manipulates the association tables. Every Replace call swaps
// the full membership set; there is no additive path.
type Repository interface {
	EventIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error)
	ProjectIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error)
	ShotRequestIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error)
	ShotRequestIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	ShotRequestIDsByProject(ctx context.Context, projectID uint) ([]uint, error)
	PersonnelIDsByProject(ctx context.Context, projectID uint) ([]uint, error)
	PersonnelIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)

	// DistinctProjectIDsByEvents resolves the project set referenced by the
	// given events, ignoring events without a project.
	DistinctProjectIDsByEvents(ctx context.Context, eventIDs []uint) ([]uint, error)

	ReplacePersonnelEvents(ctx context.Context, personnelID uint, eventIDs []uint) error
	ReplacePersonnelProjects(ctx context.Context, personnelID uint, projectIDs []uint) error
	ReplacePersonnelShotRequests(ctx context.Context, personnelID uint, shotRequestIDs []uint) error
	ReplaceEventShotRequests(ctx context.Context, eventID uint, shotRequestIDs []uint) error
	ReplaceProjectShotRequests(ctx context.Context, projectID uint, shotRequestIDs []uint) error
	ReplaceProjectPersonnel(ctx context.Context, projectID uint, personnelIDs []uint) error
	ReplaceEventPersonnel(ctx context.Context, eventID uint, personnelIDs []uint) error

	LinkEventShotRequest(ctx context.Context, eventID, shotRequestID uint) error
	LinkProjectShotRequest(ctx context.Context, projectID, shotRequestID uint) error
}
