package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type EventService struct {
	repo        event.Repository
	projectRepo project.Repository
	imageRepo   image.Repository
	publisher   eventbus.EventBus
}

func NewEventService(
	repo event.Repository,
	projectRepo project.Repository,
	imageRepo image.Repository,
	publisher eventbus.EventBus,
) *EventService {
	return &EventService{
		repo:        repo,
		projectRepo: projectRepo,
		imageRepo:   imageRepo,
		publisher:   publisher,
	}
}

func (s *EventService) GetAll(ctx context.Context) ([]*event.Event, error) {
	return s.repo.GetAll(ctx)
}

func (s *EventService) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrEventNotFound) {
			return nil, serrors.NewNotFound("EVENT_NOT_FOUND", "event not found")
		}
		return nil, serrors.NewInternal("failed to load event", err)
	}
	return e, nil
}

// validateProjectRef rejects an event that names a project not in the
// store. An absent project is fine; a dangling one is a client error.
func (s *EventService) validateProjectRef(ctx context.Context, projectID *uint) error {
	if projectID == nil {
		return nil
	}
	exists, err := s.projectRepo.Exists(ctx, *projectID)
	if err != nil {
		return serrors.NewInternal("failed to check project", err)
	}
	if !exists {
		return serrors.NewValidation("PROJECT_NOT_FOUND", "the referenced project does not exist")
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, e *event.Event) (*event.Event, error) {
	if !e.ProcessPoint.Valid() {
		return nil, serrors.NewValidation("INVALID_PROCESS_POINT", "unknown process point")
	}

	var created *event.Event
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.validateProjectRef(txCtx, e.ProjectID); err != nil {
			return err
		}
		var err error
		created, err = s.repo.Create(txCtx, e)
		if err != nil {
			return serrors.NewInternal("failed to create event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(EventCreatedEvent{Event: created})
	return created, nil
}

func (s *EventService) Update(ctx context.Context, id uint, patch event.Patch) (*event.Event, error) {
	if patch.ProcessPoint != nil && !patch.ProcessPoint.Valid() {
		return nil, serrors.NewValidation("INVALID_PROCESS_POINT", "unknown process point")
	}

	var updated *event.Event
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		e, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		e.Apply(patch)
		updated, err = s.repo.Update(txCtx, e)
		if err != nil {
			return serrors.NewInternal("failed to update event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(EventUpdatedEvent{Event: updated})
	return updated, nil
}

// AttachProject moves the event under a project, or detaches it when
// projectID is nil.
func (s *EventService) AttachProject(ctx context.Context, id uint, projectID *uint) (*event.Event, error) {
	var updated *event.Event
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := s.validateProjectRef(txCtx, projectID); err != nil {
			return err
		}
		if err := s.repo.AttachProject(txCtx, id, projectID); err != nil {
			return serrors.NewInternal("failed to attach project", err)
		}
		var err error
		updated, err = s.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(EventUpdatedEvent{Event: updated})
	return updated, nil
}

// Delete removes the event and its images, reporting how many images went
// with it.
func (s *EventService) Delete(ctx context.Context, id uint) (int64, error) {
	var deletedImages int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}

		var err error
		deletedImages, err = s.imageRepo.DeleteByEvent(txCtx, id)
		if err != nil {
			return serrors.NewInternal("failed to delete images", err)
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete event", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(EventDeletedEvent{EventID: id, DeletedImages: deletedImages})
	return deletedImages, nil
}
