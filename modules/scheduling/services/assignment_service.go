package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/domain/assignment"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

// AssignmentService replaces membership sets between personnel, events,
// projects and shot requests. Unknown member ids are dropped silently; the
// stored set is always the valid subset of what the caller sent.
type AssignmentService struct {
	repo            assignment.Repository
	personnelRepo   personnel.Repository
	eventRepo       event.Repository
	projectRepo     project.Repository
	shotRequestRepo shotrequest.Repository
	publisher       eventbus.EventBus
}

func NewAssignmentService(
	repo assignment.Repository,
	personnelRepo personnel.Repository,
	eventRepo event.Repository,
	projectRepo project.Repository,
	shotRequestRepo shotrequest.Repository,
	publisher eventbus.EventBus,
) *AssignmentService {
	return &AssignmentService{
		repo:            repo,
		personnelRepo:   personnelRepo,
		eventRepo:       eventRepo,
		projectRepo:     projectRepo,
		shotRequestRepo: shotRequestRepo,
		publisher:       publisher,
	}
}

func (s *AssignmentService) EventIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error) {
	return s.repo.EventIDsByPersonnel(ctx, personnelID)
}

func (s *AssignmentService) ProjectIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error) {
	return s.repo.ProjectIDsByPersonnel(ctx, personnelID)
}

func (s *AssignmentService) ShotRequestIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	return s.repo.ShotRequestIDsByEvent(ctx, eventID)
}

func (s *AssignmentService) ShotRequestIDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	return s.repo.ShotRequestIDsByProject(ctx, projectID)
}

func (s *AssignmentService) PersonnelIDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	return s.repo.PersonnelIDsByProject(ctx, projectID)
}

func (s *AssignmentService) PersonnelIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	return s.repo.PersonnelIDsByEvent(ctx, eventID)
}

func (s *AssignmentService) ShotRequestIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error) {
	return s.repo.ShotRequestIDsByPersonnel(ctx, personnelID)
}

func (s *AssignmentService) requirePersonnel(ctx context.Context, personnelID uint) error {
	if _, err := s.personnelRepo.GetByID(ctx, personnelID); err != nil {
		if errors.Is(err, corepersistence.ErrPersonnelNotFound) {
			return serrors.NewNotFound("PERSONNEL_NOT_FOUND", "personnel not found")
		}
		return serrors.NewInternal("failed to load personnel", err)
	}
	return nil
}

// AssignPersonnelToEvents replaces a crew member's event set and rederives
// their project memberships from the surviving events. Replacing with an
// empty set clears the events but leaves the project memberships alone, so
// an unstaffed day does not drop someone off their projects.
func (s *AssignmentService) AssignPersonnelToEvents(ctx context.Context, personnelID uint, eventIDs []uint) (events, projects []uint, err error) {
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requirePersonnel(txCtx, personnelID); err != nil {
			return err
		}

		valid, err := s.validEventIDs(txCtx, eventIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplacePersonnelEvents(txCtx, personnelID, valid); err != nil {
			return serrors.NewInternal("failed to replace event assignments", err)
		}
		events = valid

		if len(valid) == 0 {
			projects, err = s.repo.ProjectIDsByPersonnel(txCtx, personnelID)
			if err != nil {
				return serrors.NewInternal("failed to list project assignments", err)
			}
			return nil
		}

		derived, err := s.repo.DistinctProjectIDsByEvents(txCtx, valid)
		if err != nil {
			return serrors.NewInternal("failed to derive projects", err)
		}
		if err := s.repo.ReplacePersonnelProjects(txCtx, personnelID, derived); err != nil {
			return serrors.NewInternal("failed to replace project assignments", err)
		}
		projects = derived
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.publisher.Publish(PersonnelAssignedEvent{PersonnelID: personnelID, EventIDs: events, ProjectIDs: projects})
	return events, projects, nil
}

// AssignPersonnelToProjects replaces a crew member's project set directly,
// without touching event assignments.
func (s *AssignmentService) AssignPersonnelToProjects(ctx context.Context, personnelID uint, projectIDs []uint) ([]uint, error) {
	var valid []uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requirePersonnel(txCtx, personnelID); err != nil {
			return err
		}

		var err error
		valid, err = s.validProjectIDs(txCtx, projectIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplacePersonnelProjects(txCtx, personnelID, valid); err != nil {
			return serrors.NewInternal("failed to replace project assignments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

// AssignShotRequestsToPersonnel replaces a crew member's shot request set.
// Unlike the event path, this has no knock-on effect on other memberships.
func (s *AssignmentService) AssignShotRequestsToPersonnel(ctx context.Context, personnelID uint, shotRequestIDs []uint) ([]uint, error) {
	var valid []uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requirePersonnel(txCtx, personnelID); err != nil {
			return err
		}

		var err error
		valid, err = s.validShotRequestIDs(txCtx, shotRequestIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplacePersonnelShotRequests(txCtx, personnelID, valid); err != nil {
			return serrors.NewInternal("failed to replace shot request assignments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

// AssignPersonnelToEvent replaces the crew set attached to an event. Project
// memberships are only rederived by the personnel-side operation; staffing an
// event from this side leaves them untouched.
func (s *AssignmentService) AssignPersonnelToEvent(ctx context.Context, eventID uint, personnelIDs []uint) ([]uint, error) {
	var valid []uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.eventRepo.GetByID(txCtx, eventID); err != nil {
			return serrors.NewNotFound("EVENT_NOT_FOUND", "event not found")
		}

		var err error
		valid, err = s.validPersonnelIDs(txCtx, personnelIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplaceEventPersonnel(txCtx, eventID, valid); err != nil {
			return serrors.NewInternal("failed to replace personnel assignments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

// AssignShotRequestsToEvent replaces the shot request set attached to an
// event.
func (s *AssignmentService) AssignShotRequestsToEvent(ctx context.Context, eventID uint, shotRequestIDs []uint) ([]uint, error) {
	var valid []uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.eventRepo.GetByID(txCtx, eventID); err != nil {
			return serrors.NewNotFound("EVENT_NOT_FOUND", "event not found")
		}

		var err error
		valid, err = s.validShotRequestIDs(txCtx, shotRequestIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplaceEventShotRequests(txCtx, eventID, valid); err != nil {
			return serrors.NewInternal("failed to replace shot request assignments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

// AssignShotRequestsToProject replaces the shot request set attached to a
// project.
func (s *AssignmentService) AssignShotRequestsToProject(ctx context.Context, projectID uint, shotRequestIDs []uint) ([]uint, error) {
	var valid []uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		exists, err := s.projectRepo.Exists(txCtx, projectID)
		if err != nil {
			return serrors.NewInternal("failed to check project", err)
		}
		if !exists {
			return serrors.NewNotFound("PROJECT_NOT_FOUND", "project not found")
		}

		valid, err = s.validShotRequestIDs(txCtx, shotRequestIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplaceProjectShotRequests(txCtx, projectID, valid); err != nil {
			return serrors.NewInternal("failed to replace shot request assignments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

// AssignPersonnelToProject replaces the crew set attached to a project.
func (s *AssignmentService) AssignPersonnelToProject(ctx context.Context, projectID uint, personnelIDs []uint) ([]uint, error) {
	var valid []uint
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		exists, err := s.projectRepo.Exists(txCtx, projectID)
		if err != nil {
			return serrors.NewInternal("failed to check project", err)
		}
		if !exists {
			return serrors.NewNotFound("PROJECT_NOT_FOUND", "project not found")
		}

		valid, err = s.validPersonnelIDs(txCtx, personnelIDs)
		if err != nil {
			return err
		}

		if err := s.repo.ReplaceProjectPersonnel(txCtx, projectID, valid); err != nil {
			return serrors.NewInternal("failed to replace personnel assignments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}

func (s *AssignmentService) validEventIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	events, err := s.eventRepo.GetByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, serrors.NewInternal("failed to load events", err)
	}
	valid := make([]uint, 0, len(events))
	for _, e := range events {
		valid = append(valid, e.ID)
	}
	return valid, nil
}

func (s *AssignmentService) validProjectIDs(ctx context.Context, ids []uint) ([]uint, error) {
	valid := make([]uint, 0, len(ids))
	for _, id := range dedupe(ids) {
		exists, err := s.projectRepo.Exists(ctx, id)
		if err != nil {
			return nil, serrors.NewInternal("failed to check project", err)
		}
		if exists {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

func (s *AssignmentService) validShotRequestIDs(ctx context.Context, ids []uint) ([]uint, error) {
	valid := make([]uint, 0, len(ids))
	for _, id := range dedupe(ids) {
		exists, err := s.shotRequestRepo.Exists(ctx, id)
		if err != nil {
			return nil, serrors.NewInternal("failed to check shot request", err)
		}
		if exists {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

func (s *AssignmentService) validPersonnelIDs(ctx context.Context, ids []uint) ([]uint, error) {
	valid := make([]uint, 0, len(ids))
	for _, id := range dedupe(ids) {
		_, err := s.personnelRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, corepersistence.ErrPersonnelNotFound) {
				continue
			}
			return nil, serrors.NewInternal("failed to load personnel", err)
		}
		valid = append(valid, id)
	}
	return valid, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
