package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

// OrganizationDeleteReport counts the projects, events and images removed
// alongside the organization.
type OrganizationDeleteReport struct {
	Projects int64
	Events   int64
	Images   int64
}

type OrganizationService struct {
	repo        organization.Repository
	projectRepo project.Repository
	eventRepo   event.Repository
	imageRepo   image.Repository
	publisher   eventbus.EventBus
}

func NewOrganizationService(
	repo organization.Repository,
	projectRepo project.Repository,
	eventRepo event.Repository,
	imageRepo image.Repository,
	publisher eventbus.EventBus,
) *OrganizationService {
	return &OrganizationService{
		repo:        repo,
		projectRepo: projectRepo,
		eventRepo:   eventRepo,
		imageRepo:   imageRepo,
		publisher:   publisher,
	}
}

func (s *OrganizationService) GetAll(ctx context.Context) ([]*organization.Organization, error) {
	return s.repo.GetAll(ctx)
}

func (s *OrganizationService) GetByID(ctx context.Context, id uint) (*organization.Organization, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, corepersistence.ErrOrganizationNotFound) {
			return nil, serrors.NewNotFound("ORGANIZATION_NOT_FOUND", "organization not found")
		}
		return nil, serrors.NewInternal("failed to load organization", err)
	}
	return o, nil
}

func (s *OrganizationService) Create(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	var created *organization.Organization
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, o)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "ORGANIZATION_NAME_TAKEN", "an organization with this name already exists")
			}
			return serrors.NewInternal("failed to create organization", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(OrganizationCreatedEvent{Organization: created})
	return created, nil
}

func (s *OrganizationService) Update(ctx context.Context, id uint, patch organization.Patch) (*organization.Organization, error) {
	var updated *organization.Organization
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		o, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		o.Apply(patch)
		updated, err = s.repo.Update(txCtx, o)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "ORGANIZATION_NAME_TAKEN", "an organization with this name already exists")
			}
			return serrors.NewInternal("failed to update organization", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(OrganizationUpdatedEvent{Organization: updated})
	return updated, nil
}

// AttachCompany moves the organization into a company, or detaches it when
// companyID is nil.
func (s *OrganizationService) AttachCompany(ctx context.Context, id uint, companyID *uint) (*organization.Organization, error) {
	var updated *organization.Organization
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		o, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		o.AttachCompany(companyID)
		updated, err = s.repo.Update(txCtx, o)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "COMPANY_NOT_FOUND", "the target company does not exist")
			}
			return serrors.NewInternal("failed to update organization", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(OrganizationUpdatedEvent{Organization: updated})
	return updated, nil
}

// Delete removes the organization and cascades through its projects, their
// events and those events' images, reporting exact counts.
func (s *OrganizationService) Delete(ctx context.Context, id uint) (*OrganizationDeleteReport, error) {
	report := &OrganizationDeleteReport{}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}

		projects, events, images, err := cascadeDeleteOrganizationProjects(txCtx, s.projectRepo, s.eventRepo, s.imageRepo, id)
		if err != nil {
			return err
		}
		report.Projects = projects
		report.Events = events
		report.Images = images

		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete organization", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(OrganizationDeletedEvent{OrganizationID: id, Report: report})
	return report, nil
}
