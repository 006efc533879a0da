package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/pkg/serrors"
)

// ScheduleService answers "what is this user shooting" by walking from the
// account to its linked crew record to that record's assigned events.
type ScheduleService struct {
	userRepo      user.Repository
	personnelRepo personnel.Repository
	eventRepo     event.Repository
}

func NewScheduleService(userRepo user.Repository, personnelRepo personnel.Repository, eventRepo event.Repository) *ScheduleService {
	return &ScheduleService{
		userRepo:      userRepo,
		personnelRepo: personnelRepo,
		eventRepo:     eventRepo,
	}
}

// ForUser returns the user's assigned events, optionally narrowed to an
// exact date. A user without a linked crew record has an empty schedule,
// which is not an error.
func (s *ScheduleService) ForUser(ctx context.Context, userID uint, date string) ([]*event.Event, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, corepersistence.ErrUserNotFound) {
			return nil, serrors.NewNotFound("USER_NOT_FOUND", "user not found")
		}
		return nil, serrors.NewInternal("failed to load user", err)
	}

	p, err := s.personnelRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, corepersistence.ErrPersonnelNotFound) {
			return []*event.Event{}, nil
		}
		return nil, serrors.NewInternal("failed to load linked personnel", err)
	}

	events, err := s.eventRepo.ListByPersonnel(ctx, p.ID(), date)
	if err != nil {
		return nil, serrors.NewInternal("failed to list events", err)
	}
	if events == nil {
		events = []*event.Event{}
	}
	return events, nil
}
