// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/metrics"
	"github.com/carterperez-dev/homemgmt/internal/middleware"
)

var (
	ErrInvalidCredentials = core.NewAppError(
		core.ErrUnauthorized,
		"Invalid credentials.",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
	ErrSessionInvalid = core.NewAppError(
		core.ErrConflict,
		"No valid session found or already invalidated.",
		http.StatusConflict,
		"SESSION_INVALID",
	)
	ErrUserNotFound = core.NewAppError(
		core.ErrNotFound,
		"User not found.",
		http.StatusNotFound,
		"USER_NOT_FOUND",
	)
)

type UserInfo struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         core.Role
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	repo         Repository
	tokens       *TokenManager
	userProvider UserProvider
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	tokens *TokenManager,
	userProvider UserProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		userProvider: userProvider,
		logger:       logger,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer span.End()

	user, err := s.userProvider.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			metrics.RecordLogin(false)
			return nil, ErrInvalidCredentials
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	session := &Session{UserID: user.ID}
	if err := s.repo.Create(ctx, session); err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokens.CreateSessionToken(session)
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", user.ID),
		attribute.Int64("session.id", session.ID),
	)
	metrics.RecordLogin(true)

	return &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		SessionID: session.ID,
		User: UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Logout invalidates the session behind token. A token that does not name
// a currently valid session is a normal outcome, not a fault.
func (s *Service) Logout(ctx context.Context, token string) (*LogoutResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Logout")
	defer span.End()

	identity, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if err := s.repo.Invalidate(ctx, identity.SessionID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return &LogoutResponse{
		Status:  "success",
		Message: "Session invalidated successfully.",
	}, nil
}

// VerifySessionToken authenticates a request. The role comes from the
// user record, so a role change applies to sessions already issued.
func (s *Service) VerifySessionToken(
	ctx context.Context,
	token string,
) (*middleware.SessionClaims, error) {
	identity, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(ctx, identity.SessionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
		}
		return nil, err
	}

	if !session.IsValid() || session.UserID != identity.UserID {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}

	user, err := s.userProvider.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify session owner: %w", core.ErrTokenRevoked)
		}
		return nil, err
	}

	return &middleware.SessionClaims{
		UserID:    user.ID,
		SessionID: session.ID,
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *Service) ListSessions(ctx context.Context, userID int64) ([]Session, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	return s.repo.ListByUser(ctx, userID)
}

// PurgeSessions removes every session of a user, which clears the session
// guard on user deletion.
func (s *Service) PurgeSessions(ctx context.Context, userID int64) (int64, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("sessions purged", "user_id", userID, "deleted", deleted)
	return deleted, nil
}

func (s *Service) lookupUser(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
