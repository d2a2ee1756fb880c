// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/core"
)

var (
	ErrDuplicateUsername = core.NewAppError(
		core.ErrDuplicateKey,
		"User with this email already exists.",
		http.StatusConflict,
		"DUPLICATE_USERNAME",
	)
	ErrUserNotFound = core.NewAppError(
		core.ErrNotFound,
		"User not found.",
		http.StatusNotFound,
		"USER_NOT_FOUND",
	)
	ErrUserHasSessions = core.NewAppError(
		core.ErrConflict,
		"Cannot delete user with existing sessions.",
		http.StatusConflict,
		"USER_HAS_SESSIONS",
	)
	ErrUserHasRooms = core.NewAppError(
		core.ErrConflict,
		"Cannot delete user with associated rooms.",
		http.StatusConflict,
		"USER_HAS_ROOMS",
	)
)

type Service struct {
	repo   Repository
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo Repository, tx Transactor, logger *slog.Logger) *Service {
	return &Service{repo: repo, tx: tx, logger: logger}
}

func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	if !req.Role.Valid() {
		return nil, core.ValidationError("role must be ADMIN or USER")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return profile, nil
}

// UpdateUser overwrites the supplied fields. A new password is hashed
// before it is stored.
func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, core.ValidationError("role must be ADMIN or USER")
		}
		user.Role = *req.Role
	}

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser refuses while the user still has sessions or owned rooms.
// The guard and the delete share one transaction.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	ctx, span := core.StartSpan(ctx, "user.DeleteUser",
		attribute.Int64("user.id", id),
	)
	defer span.End()

	err := s.tx.WithinTx(ctx, func(repo Repository) error {
		if _, err := repo.GetByID(ctx, id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		deps, err := repo.CountDependents(ctx, id)
		if err != nil {
			return err
		}
		if deps.Sessions > 0 {
			return ErrUserHasSessions
		}
		if deps.Rooms > 0 {
			return ErrUserHasRooms
		}

		return repo.Delete(ctx, id)
	})
	if err != nil {
		if !core.IsAppError(err) {
			core.SetSpanError(ctx, err)
		}
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// EnsureAdmin creates an administrator with the given credentials unless a
// user with that email already exists. Existing users are left untouched.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	email, password string,
) (bool, error) {
	_, err := s.CreateUser(ctx, CreateUserRequest{
		Email:    email,
		Password: password,
		Role:     core.RoleAdmin,
	})
	if errors.Is(err, ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	return true, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var _ auth.UserProvider = (*Service)(nil)
