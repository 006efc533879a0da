package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type PersonnelService struct {
	repo      personnel.Repository
	userRepo  user.Repository
	publisher eventbus.EventBus
}

func NewPersonnelService(repo personnel.Repository, userRepo user.Repository, publisher eventbus.EventBus) *PersonnelService {
	return &PersonnelService{repo: repo, userRepo: userRepo, publisher: publisher}
}

func (s *PersonnelService) GetAll(ctx context.Context) ([]*personnel.Personnel, error) {
	return s.repo.GetAll(ctx)
}

func (s *PersonnelService) GetByID(ctx context.Context, id uint) (*personnel.Personnel, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, corepersistence.ErrPersonnelNotFound) {
			return nil, serrors.NewNotFound("PERSONNEL_NOT_FOUND", "personnel not found")
		}
		return nil, serrors.NewInternal("failed to load personnel", err)
	}
	return p, nil
}

// Create stores a new crew record. Linking a user is only allowed when the
// companies of both sides agree; a user without a company accepts any link.
// Patch cannot touch user_id/company_id, so create is the only door for a
// cross-tenant linkage.
func (s *PersonnelService) Create(ctx context.Context, p *personnel.Personnel) (*personnel.Personnel, error) {
	var created *personnel.Personnel
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if p.UserID() != nil {
			u, err := s.userRepo.GetByID(txCtx, *p.UserID())
			if err != nil {
				if errors.Is(err, corepersistence.ErrUserNotFound) {
					return serrors.NewValidation("USER_NOT_FOUND", "user not found")
				}
				return serrors.NewInternal("failed to load linked user", err)
			}
			if u.CompanyID() != nil && (p.CompanyID() == nil || *p.CompanyID() != *u.CompanyID()) {
				return serrors.NewConflict("CROSS_TENANT_LINK", "personnel company must match the linked user's company")
			}
		}

		var err error
		created, err = s.repo.Create(txCtx, p)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "PERSONNEL_CONFLICT", "personnel conflicts with an existing record")
			}
			return serrors.NewInternal("failed to create personnel", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(PersonnelCreatedEvent{Personnel: created})
	return created, nil
}

func (s *PersonnelService) Update(ctx context.Context, id uint, patch personnel.Patch) (*personnel.Personnel, error) {
	var updated *personnel.Personnel
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		p, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		p.Apply(patch)
		updated, err = s.repo.Update(txCtx, p)
		if err != nil {
			return serrors.NewInternal("failed to update personnel", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(PersonnelUpdatedEvent{Personnel: updated})
	return updated, nil
}

// Delete removes the crew record. Membership rows in the association tables
// go with it through the store's referential rules.
func (s *PersonnelService) Delete(ctx context.Context, id uint) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete personnel", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(PersonnelDeletedEvent{PersonnelID: id})
	return nil
}
