// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/notify"
)

var ErrServiceNotFound = core.NewAppError(
	core.ErrNotFound,
	"Service not found.",
	http.StatusNotFound,
	"SERVICE_NOT_FOUND",
)

// UserLookup resolves the acting user so the service catalog can check
// the stored role rather than trusting the caller.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.UserInfo, error)
}

type Service struct {
	repo   Repository
	users  UserLookup
	events notify.Publisher
	logger *slog.Logger
}

func NewService(
	repo Repository,
	users UserLookup,
	events notify.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		events: events,
		logger: logger,
	}
}

func (s *Service) AddService(
	ctx context.Context,
	adminID int64,
	req CreateServiceRequest,
) (*ServiceRecord, error) {
	if err := s.requireAdmin(ctx, adminID, "Unauthorized: Only admins can add services."); err != nil {
		return nil, err
	}

	record := &ServiceRecord{
		ServiceName:     req.ServiceName,
		InstallationCmd: req.InstallationCmd,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.emit(ctx, notify.ActionCreated, record)
	return record, nil
}

func (s *Service) ListServices(ctx context.Context) ([]ServiceRecord, error) {
	return s.repo.List(ctx)
}

// FindByInstallCommand returns the first service whose install command
// matches cmd exactly.
func (s *Service) FindByInstallCommand(
	ctx context.Context,
	cmd string,
) (*ServiceRecord, error) {
	record, err := s.repo.FindByInstallCmd(ctx, cmd)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) UpdateService(
	ctx context.Context,
	id int64,
	req UpdateServiceRequest,
) (*ServiceRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if req.ServiceName == nil && req.InstallationCmd == nil {
		return record, nil
	}

	if req.ServiceName != nil {
		record.ServiceName = *req.ServiceName
	}
	if req.InstallationCmd != nil {
		record.InstallationCmd = *req.InstallationCmd
	}

	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	s.emit(ctx, notify.ActionUpdated, record)
	return record, nil
}

func (s *Service) DeleteService(ctx context.Context, id, adminID int64) error {
	if err := s.requireAdmin(ctx, adminID, "Unauthorized: Only admins can delete services."); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrServiceNotFound
		}
		return err
	}

	s.emit(ctx, notify.ActionDeleted, &ServiceRecord{ID: id})
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// requireAdmin treats an unknown user the same as a non-admin.
func (s *Service) requireAdmin(ctx context.Context, userID int64, message string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}
	if user == nil || !user.Role.IsAdmin() {
		return core.RoleRequiredError(message)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action string, r *ServiceRecord) {
	notify.Emit(ctx, s.events, s.logger, notify.NewEvent(notify.KindService, action, r.ID, r.ServiceName))
}
