package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clipdeck/internal/core/domain"
)

type Identity struct {
	Email           string
	Name            string
	ProfileImageURL string
	Provider        string
}

type LoginStrategy interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type AuthService struct {
	userRepo        UserRepository
	sessionRepo     SessionRepository
	strategy        LoginStrategy
	sessionLifetime time.Duration
	clock           Clock
}

func NewAuthService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	strategy LoginStrategy,
	sessionLifetime time.Duration,
	clock Clock,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		strategy:        strategy,
		sessionLifetime: sessionLifetime,
		clock:           clock,
	}
}

func (s *AuthService) LoginURL(state string) string {
	return s.strategy.AuthURL(state)
}

// CompleteLogin exchanges the provider code for an identity, creates or
// refreshes the matching user and opens a session for it.
func (s *AuthService) CompleteLogin(ctx context.Context, code string) (*domain.Session, error) {
	identity, err := s.strategy.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if identity.Email == "" {
		return nil, ErrUnauthorized
	}

	now := s.clock.Now()
	user, err := s.userRepo.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &domain.User{
			ID:              uuid.NewString(),
			Email:           identity.Email,
			Name:            identity.Name,
			ProfileImageURL: identity.ProfileImageURL,
			Provider:        identity.Provider,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		user.Name = identity.Name
		user.ProfileImageURL = identity.ProfileImageURL
		user.Provider = identity.Provider
		user.UpdatedAt = now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionLifetime),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AuthService) UserFromSession(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	if !s.clock.Now().Before(session.ExpiresAt) {
		// expired sessions are removed on first use
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}
