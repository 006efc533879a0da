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

// ProjectDeleteReport counts the events and images removed with a project.
type ProjectDeleteReport struct {
	Events int64
	Images int64
}

type ProjectService struct {
	repo      project.Repository
	eventRepo event.Repository
	imageRepo image.Repository
	publisher eventbus.EventBus
}

func NewProjectService(
	repo project.Repository,
	eventRepo event.Repository,
	imageRepo image.Repository,
	publisher eventbus.EventBus,
) *ProjectService {
	return &ProjectService{
		repo:      repo,
		eventRepo: eventRepo,
		imageRepo: imageRepo,
		publisher: publisher,
	}
}

func (s *ProjectService) GetAll(ctx context.Context) ([]*project.Project, error) {
	return s.repo.GetAll(ctx)
}

func (s *ProjectService) GetByID(ctx context.Context, id uint) (*project.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrProjectNotFound) {
			return nil, serrors.NewNotFound("PROJECT_NOT_FOUND", "project not found")
		}
		return nil, serrors.NewInternal("failed to load project", err)
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	var created *project.Project
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, p)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "ORGANIZATION_NOT_FOUND", "the referenced organization does not exist")
			}
			return serrors.NewInternal("failed to create project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ProjectCreatedEvent{Project: created})
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, patch project.Patch) (*project.Project, error) {
	var updated *project.Project
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		p, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		p.Apply(patch)
		updated, err = s.repo.Update(txCtx, p)
		if err != nil {
			return serrors.NewInternal("failed to update project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ProjectUpdatedEvent{Project: updated})
	return updated, nil
}

// AttachOrganization moves the project under an organization, or detaches
// it when organizationID is nil.
func (s *ProjectService) AttachOrganization(ctx context.Context, id uint, organizationID *uint) (*project.Project, error) {
	var updated *project.Project
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := s.repo.AttachOrganization(txCtx, id, organizationID); err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "ORGANIZATION_NOT_FOUND", "the target organization does not exist")
			}
			return serrors.NewInternal("failed to attach organization", err)
		}
		var err error
		updated, err = s.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ProjectUpdatedEvent{Project: updated})
	return updated, nil
}

// Delete removes the project, its events and those events' images, and
// reports the counts.
func (s *ProjectService) Delete(ctx context.Context, id uint) (*ProjectDeleteReport, error) {
	report := &ProjectDeleteReport{}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}

		eventIDs, err := s.eventRepo.IDsByProject(txCtx, id)
		if err != nil {
			return serrors.NewInternal("failed to list events", err)
		}

		deletedImages, err := s.imageRepo.DeleteByEvents(txCtx, eventIDs)
		if err != nil {
			return serrors.NewInternal("failed to delete images", err)
		}
		report.Images = deletedImages

		for _, eventID := range eventIDs {
			if err := s.eventRepo.Delete(txCtx, eventID); err != nil {
				return serrors.NewInternal("failed to delete event", err)
			}
		}
		report.Events = int64(len(eventIDs))

		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ProjectDeletedEvent{ProjectID: id, Report: report})
	return report, nil
}
