package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type UserService struct {
	repo          user.Repository
	personnelRepo personnel.Repository
	orgRepo       organization.Repository
	publisher     eventbus.EventBus
}

func NewUserService(repo user.Repository, personnelRepo personnel.Repository, orgRepo organization.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:          repo,
		personnelRepo: personnelRepo,
		orgRepo:       orgRepo,
		publisher:     publisher,
	}
}

func (s *UserService) GetAll(ctx context.Context) ([]*user.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, corepersistence.ErrUserNotFound) {
			return nil, serrors.NewNotFound("USER_NOT_FOUND", "user not found")
		}
		return nil, serrors.NewInternal("failed to load user", err)
	}
	return u, nil
}

// requireTenantAgreement enforces the tenancy rule on a company/organization
// pair: a user may sit in an organization only when that organization's
// company matches the user's company, or the user has no company at all.
func (s *UserService) requireTenantAgreement(ctx context.Context, companyID, organizationID *uint) error {
	if organizationID == nil {
		return nil
	}
	org, err := s.orgRepo.GetByID(ctx, *organizationID)
	if err != nil {
		if errors.Is(err, corepersistence.ErrOrganizationNotFound) {
			return serrors.NewValidation("ORGANIZATION_NOT_FOUND", "organization not found")
		}
		return serrors.NewInternal("failed to load organization", err)
	}
	if companyID == nil {
		return nil
	}
	if org.CompanyID() == nil || *org.CompanyID() != *companyID {
		return serrors.NewConflict("CROSS_TENANT_ORGANIZATION", "organization belongs to a different company")
	}
	return nil
}

// Create provisions a user account. When createPersonnel is set, a crew
// record is created alongside it, sharing the user's name, email and
// company and linked 1:1 through user_id.
func (s *UserService) Create(ctx context.Context, u *user.User, password string, createPersonnel bool) (*user.User, error) {
	var created *user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requireTenantAgreement(txCtx, u.CompanyID(), u.OrganizationID()); err != nil {
			return err
		}

		if err := u.SetPassword(password); err != nil {
			return serrors.NewInternal("failed to hash password", err)
		}

		var err error
		created, err = s.repo.Create(txCtx, u)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "EMAIL_TAKEN", "a user with this email already exists")
			}
			return serrors.NewInternal("failed to create user", err)
		}

		if createPersonnel {
			p := personnel.New(
				created.Name(),
				personnel.WithEmail(created.Email()),
				personnel.WithRole(string(created.Access())),
				personnel.WithAvatar(created.Avatar()),
				personnel.WithCompanyID(created.CompanyID()),
				personnel.WithUserID(mapping.Pointer(created.ID())),
			)
			if _, err := s.personnelRepo.Create(txCtx, p); err != nil {
				return serrors.NewInternal("failed to create linked personnel", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserCreatedEvent{User: created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id uint, patch user.Patch) (*user.User, error) {
	var updated *user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		u.Apply(patch)
		updated, err = s.repo.Update(txCtx, u)
		if err != nil {
			return serrors.NewInternal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserUpdatedEvent{User: updated})
	return updated, nil
}

// AttachCompany moves the user into a company, or detaches them when nil.
// The user's organization, if any, must belong to the new company.
func (s *UserService) AttachCompany(ctx context.Context, id uint, companyID *uint) (*user.User, error) {
	var updated *user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.requireTenantAgreement(txCtx, companyID, u.OrganizationID()); err != nil {
			return err
		}
		u.AttachCompany(companyID)
		updated, err = s.repo.Update(txCtx, u)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "COMPANY_NOT_FOUND", "company not found")
			}
			return serrors.NewInternal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserUpdatedEvent{User: updated})
	return updated, nil
}

// AttachOrganization moves the user into an organization, or detaches them
// when nil. Rejected when the organization sits in a different company.
func (s *UserService) AttachOrganization(ctx context.Context, id uint, organizationID *uint) (*user.User, error) {
	var updated *user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.requireTenantAgreement(txCtx, u.CompanyID(), organizationID); err != nil {
			return err
		}
		u.AttachOrganization(organizationID)
		updated, err = s.repo.Update(txCtx, u)
		if err != nil {
			return serrors.NewInternal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserUpdatedEvent{User: updated})
	return updated, nil
}

// ChangePassword rehashes and stores a new credential for the user.
func (s *UserService) ChangePassword(ctx context.Context, id uint, password string) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := u.SetPassword(password); err != nil {
			return serrors.NewInternal("failed to hash password", err)
		}
		if _, err := s.repo.Update(txCtx, u); err != nil {
			return serrors.NewInternal("failed to update user", err)
		}
		return nil
	})
	return err
}

// Delete removes the user and their linked personnel record, if any, and
// reports whether one was removed.
func (s *UserService) Delete(ctx context.Context, id uint) (deletedPersonnel bool, err error) {
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}

		p, err := s.personnelRepo.GetByUserID(txCtx, id)
		if err != nil && !errors.Is(err, corepersistence.ErrPersonnelNotFound) {
			return serrors.NewInternal("failed to load linked personnel", err)
		}
		if p != nil {
			if err := s.personnelRepo.Delete(txCtx, p.ID()); err != nil {
				return serrors.NewInternal("failed to delete linked personnel", err)
			}
			deletedPersonnel = true
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete user", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.publisher.Publish(UserDeletedEvent{UserID: id})
	return deletedPersonnel, nil
}
