package services

import (
	"context"
	"errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type AuthService struct {
	userRepo user.Repository
}

func NewAuthService(userRepo user.Repository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, corepersistence.ErrUserNotFound) {
			return nil, serrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")
		}
		return nil, serrors.NewInternal("failed to load user", err)
	}

	if !u.CheckPassword(password) {
		return nil, serrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")
	}
	return u, nil
}
