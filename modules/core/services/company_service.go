package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

// CompanyDeleteReport counts everything a company deletion touched. The
// traversal is explicit so the numbers are exact, not inferred from FK
// cascades.
type CompanyDeleteReport struct {
	Organizations int64
	Projects      int64
	Events        int64
	Images        int64
	Personnel     int64
	DetachedUsers int64
}

type CompanyService struct {
	repo          company.Repository
	orgRepo       organization.Repository
	userRepo      user.Repository
	personnelRepo personnel.Repository
	projectRepo   project.Repository
	eventRepo     event.Repository
	imageRepo     image.Repository
	publisher     eventbus.EventBus
}

func NewCompanyService(
	repo company.Repository,
	orgRepo organization.Repository,
	userRepo user.Repository,
	personnelRepo personnel.Repository,
	projectRepo project.Repository,
	eventRepo event.Repository,
	imageRepo image.Repository,
	publisher eventbus.EventBus,
) *CompanyService {
	return &CompanyService{
		repo:          repo,
		orgRepo:       orgRepo,
		userRepo:      userRepo,
		personnelRepo: personnelRepo,
		projectRepo:   projectRepo,
		eventRepo:     eventRepo,
		imageRepo:     imageRepo,
		publisher:     publisher,
	}
}

func (s *CompanyService) GetAll(ctx context.Context) ([]*company.Company, error) {
	return s.repo.GetAll(ctx)
}

func (s *CompanyService) GetByID(ctx context.Context, id uint) (*company.Company, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, corepersistence.ErrCompanyNotFound) {
			return nil, serrors.NewNotFound("COMPANY_NOT_FOUND", "company not found")
		}
		return nil, serrors.NewInternal("failed to load company", err)
	}
	return c, nil
}

// requireSingleSuperAdmin rejects a write that would produce a second
// super-admin company. The partial unique index on companies backs this up
// against races.
func (s *CompanyService) requireSingleSuperAdmin(ctx context.Context, c *company.Company, excludeID uint) error {
	if !c.IsSuperAdmin() {
		return nil
	}
	exists, err := s.repo.ExistsOtherSuperAdmin(ctx, excludeID)
	if err != nil {
		return serrors.NewInternal("failed to check super admin companies", err)
	}
	if exists {
		return serrors.NewConflict("SUPER_ADMIN_EXISTS", "a super admin company already exists")
	}
	return nil
}

func (s *CompanyService) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	var created *company.Company
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requireSingleSuperAdmin(txCtx, c, 0); err != nil {
			return err
		}

		var err error
		created, err = s.repo.Create(txCtx, c)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "COMPANY_NAME_TAKEN", "a company with this name already exists")
			}
			return serrors.NewInternal("failed to create company", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(CompanyCreatedEvent{Company: created})
	return created, nil
}

func (s *CompanyService) Update(ctx context.Context, id uint, patch company.Patch) (*company.Company, error) {
	var updated *company.Company
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		c, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		c.Apply(patch)
		if err := s.requireSingleSuperAdmin(txCtx, c, id); err != nil {
			return err
		}
		updated, err = s.repo.Update(txCtx, c)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "COMPANY_NAME_TAKEN", "a company with this name already exists")
			}
			return serrors.NewInternal("failed to update company", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(CompanyUpdatedEvent{Company: updated})
	return updated, nil
}

// Delete removes a company and everything scoped under it: organizations
// with their projects, events and images, plus the company's crew roster.
// User accounts survive with their company link cleared.
func (s *CompanyService) Delete(ctx context.Context, id uint) (*CompanyDeleteReport, error) {
	report := &CompanyDeleteReport{}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		c, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if c.IsSuperAdmin() {
			return serrors.NewInvalidState("SUPER_ADMIN_COMPANY", "the super admin company cannot be deleted")
		}

		orgIDs, err := s.orgRepo.IDsByCompany(txCtx, id)
		if err != nil {
			return serrors.NewInternal("failed to list organizations", err)
		}
		for _, orgID := range orgIDs {
			projects, events, images, err := cascadeDeleteOrganizationProjects(txCtx, s.projectRepo, s.eventRepo, s.imageRepo, orgID)
			if err != nil {
				return err
			}
			report.Projects += projects
			report.Events += events
			report.Images += images

			if err := s.orgRepo.Delete(txCtx, orgID); err != nil {
				return serrors.NewInternal("failed to delete organization", err)
			}
			report.Organizations++
		}

		deleted, err := s.personnelRepo.DeleteByCompany(txCtx, id)
		if err != nil {
			return serrors.NewInternal("failed to delete personnel", err)
		}
		report.Personnel = deleted

		detached, err := s.userRepo.DetachCompany(txCtx, id)
		if err != nil {
			return serrors.NewInternal("failed to detach users", err)
		}
		report.DetachedUsers = detached

		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete company", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(CompanyDeletedEvent{CompanyID: id, Report: report})
	return report, nil
}

// cascadeDeleteOrganizationProjects removes every project under the
// organization together with its events and their images, returning exact
// counts. Shared by company and organization deletion.
func cascadeDeleteOrganizationProjects(
	ctx context.Context,
	projectRepo project.Repository,
	eventRepo event.Repository,
	imageRepo image.Repository,
	orgID uint,
) (projects, events, images int64, err error) {
	projectIDs, err := projectRepo.IDsByOrganization(ctx, orgID)
	if err != nil {
		return 0, 0, 0, serrors.NewInternal("failed to list projects", err)
	}

	for _, projectID := range projectIDs {
		eventIDs, err := eventRepo.IDsByProject(ctx, projectID)
		if err != nil {
			return 0, 0, 0, serrors.NewInternal("failed to list events", err)
		}

		deletedImages, err := imageRepo.DeleteByEvents(ctx, eventIDs)
		if err != nil {
			return 0, 0, 0, serrors.NewInternal("failed to delete images", err)
		}
		images += deletedImages

		for _, eventID := range eventIDs {
			if err := eventRepo.Delete(ctx, eventID); err != nil {
				return 0, 0, 0, serrors.NewInternal("failed to delete event", err)
			}
		}
		events += int64(len(eventIDs))

		if err := projectRepo.Delete(ctx, projectID); err != nil {
			return 0, 0, 0, serrors.NewInternal("failed to delete project", err)
		}
	}
	projects = int64(len(projectIDs))

	return projects, events, images, nil
}
