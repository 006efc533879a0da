package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/assignment"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type ShotRequestService struct {
	repo        shotrequest.Repository
	projectRepo project.Repository
	eventRepo   event.Repository
	imageRepo   image.Repository
	assignments assignment.Repository
	publisher   eventbus.EventBus
}

func NewShotRequestService(
	repo shotrequest.Repository,
	projectRepo project.Repository,
	eventRepo event.Repository,
	imageRepo image.Repository,
	assignments assignment.Repository,
	publisher eventbus.EventBus,
) *ShotRequestService {
	return &ShotRequestService{
		repo:        repo,
		projectRepo: projectRepo,
		eventRepo:   eventRepo,
		imageRepo:   imageRepo,
		assignments: assignments,
		publisher:   publisher,
	}
}

func (s *ShotRequestService) GetAll(ctx context.Context) ([]*shotrequest.ShotRequest, error) {
	return s.repo.GetAll(ctx)
}

func (s *ShotRequestService) GetByID(ctx context.Context, id uint) (*shotrequest.ShotRequest, error) {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrShotRequestNotFound) {
			return nil, serrors.NewNotFound("SHOT_REQUEST_NOT_FOUND", "shot request not found")
		}
		return nil, serrors.NewInternal("failed to load shot request", err)
	}
	return sr, nil
}

// Create stores a shot request and optionally links it to a project and/or
// an event in the same unit of work. A named parent that does not exist is
// a client error.
func (s *ShotRequestService) Create(ctx context.Context, sr *shotrequest.ShotRequest, projectID, eventID *uint) (*shotrequest.ShotRequest, error) {
	if !sr.ProcessPoint.Valid() {
		return nil, serrors.NewValidation("INVALID_PROCESS_POINT", "unknown process point")
	}

	var created *shotrequest.ShotRequest
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if projectID != nil {
			exists, err := s.projectRepo.Exists(txCtx, *projectID)
			if err != nil {
				return serrors.NewInternal("failed to check project", err)
			}
			if !exists {
				return serrors.NewValidation("PROJECT_NOT_FOUND", "the referenced project does not exist")
			}
		}
		if eventID != nil {
			if _, err := s.eventRepo.GetByID(txCtx, *eventID); err != nil {
				if errors.Is(err, persistence.ErrEventNotFound) {
					return serrors.NewValidation("EVENT_NOT_FOUND", "the referenced event does not exist")
				}
				return serrors.NewInternal("failed to check event", err)
			}
		}

		var err error
		created, err = s.repo.Create(txCtx, sr)
		if err != nil {
			return serrors.NewInternal("failed to create shot request", err)
		}

		if projectID != nil {
			if err := s.assignments.LinkProjectShotRequest(txCtx, *projectID, created.ID); err != nil {
				return serrors.NewInternal("failed to link shot request to project", err)
			}
		}
		if eventID != nil {
			if err := s.assignments.LinkEventShotRequest(txCtx, *eventID, created.ID); err != nil {
				return serrors.NewInternal("failed to link shot request to event", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ShotRequestCreatedEvent{ShotRequest: created})
	return created, nil
}

func (s *ShotRequestService) Update(ctx context.Context, id uint, patch shotrequest.Patch) (*shotrequest.ShotRequest, error) {
	if patch.ProcessPoint != nil && !patch.ProcessPoint.Valid() {
		return nil, serrors.NewValidation("INVALID_PROCESS_POINT", "unknown process point")
	}

	var updated *shotrequest.ShotRequest
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		sr, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		sr.Apply(patch)
		updated, err = s.repo.Update(txCtx, sr)
		if err != nil {
			return serrors.NewInternal("failed to update shot request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ShotRequestUpdatedEvent{ShotRequest: updated})
	return updated, nil
}

// Delete removes the shot request and its images, reporting the image
// count.
func (s *ShotRequestService) Delete(ctx context.Context, id uint) (int64, error) {
	var deletedImages int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}

		var err error
		deletedImages, err = s.imageRepo.DeleteByShotRequest(txCtx, id)
		if err != nil {
			return serrors.NewInternal("failed to delete images", err)
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete shot request", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(ShotRequestDeletedEvent{ShotRequestID: id, DeletedImages: deletedImages})
	return deletedImages, nil
}
