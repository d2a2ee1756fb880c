// AngelaMos | 2026
// service.go

package entity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/homeassistant"
	"github.com/carterperez-dev/homemgmt/internal/notify"
)

var (
	ErrEntityNotFound = core.NewAppError(
		core.ErrNotFound,
		"Entity not found.",
		http.StatusNotFound,
		"ENTITY_NOT_FOUND",
	)
	ErrRoomNotFound = core.NewAppError(
		core.ErrNotFound,
		"Room not found.",
		http.StatusNotFound,
		"ROOM_NOT_FOUND",
	)
	ErrDuplicateName = core.NewAppError(
		core.ErrDuplicateKey,
		"An entity with this name already exists in the room.",
		http.StatusConflict,
		"DUPLICATE_NAME",
	)
	ErrInvalidEntityID = core.NewAppError(
		core.ErrInvalidInput,
		"Invalid entity ID format.",
		http.StatusBadRequest,
		"INVALID_ENTITY_ID",
	)
	ErrUpstreamUnavailable = core.NewAppError(
		core.ErrUpstream,
		"Failed to fetch entities from Home Assistant.",
		http.StatusBadGateway,
		"UPSTREAM_UNAVAILABLE",
	)
)

type LiveSource interface {
	ListEntities(ctx context.Context) ([]homeassistant.Entity, error)
}

type Service struct {
	repo          Repository
	live          LiveSource
	events        notify.Publisher
	defaultRoomID int64
	logger        *slog.Logger
}

func NewService(
	repo Repository,
	live LiveSource,
	events notify.Publisher,
	defaultRoomID int64,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:          repo,
		live:          live,
		events:        events,
		defaultRoomID: defaultRoomID,
		logger:        logger,
	}
}

func (s *Service) CreateEntity(
	ctx context.Context,
	req CreateEntityRequest,
) (*Entity, error) {
	exists, err := s.repo.RoomExists(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	if _, err := s.repo.FindInRoomByName(ctx, req.RoomID, req.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	entity := &Entity{
		Name:       req.Name,
		EntityType: req.EntityType,
		RoomID:     RoomRef(req.RoomID),
		Attributes: req.Attributes,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, ErrDuplicateName
		case errors.Is(err, core.ErrNotFound):
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	s.emit(ctx, notify.ActionCreated, entity)
	return entity, nil
}

// AddEntity places a new entity in the configured default room. Only
// administrators may call it, and a failed write is reported as an
// outcome carrying the failure message.
func (s *Service) AddEntity(
	ctx context.Context,
	requesterRole core.Role,
	req AddEntityRequest,
) (*Entity, error) {
	if !requesterRole.IsAdmin() {
		return nil, core.RoleRequiredError("Unauthorized access; user must be an admin.")
	}

	entity := &Entity{
		Name:       req.Name,
		EntityType: req.EntityType,
		RoomID:     RoomRef(s.defaultRoomID),
		Attributes: req.Config,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		s.logger.WarnContext(ctx, "add entity failed",
			"name", req.Name,
			"room_id", s.defaultRoomID,
			"error", err,
		)
		return nil, core.NewAppError(
			err,
			fmt.Sprintf("Failed to add entity: %s.", describeWriteError(err)),
			http.StatusUnprocessableEntity,
			"ADD_ENTITY_FAILED",
		)
	}

	s.emit(ctx, notify.ActionCreated, entity)
	return entity, nil
}

// ListEntitiesByRoom does not check that the room exists.
func (s *Service) ListEntitiesByRoom(ctx context.Context, roomID int64) ([]Entity, error) {
	return s.repo.ListByRoom(ctx, roomID)
}

// UpdateEntity takes the id as it arrived on the wire.
func (s *Service) UpdateEntity(
	ctx context.Context,
	rawID string,
	req UpdateEntityRequest,
) (*Entity, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return nil, ErrInvalidEntityID
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	entity.Name = req.Name
	entity.EntityType = req.EntityType

	if err := s.repo.Update(ctx, entity); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, ErrDuplicateName
		case errors.Is(err, core.ErrNotFound):
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	s.emit(ctx, notify.ActionUpdated, entity)
	return entity, nil
}

func (s *Service) DeleteEntity(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrEntityNotFound
		}
		return err
	}

	s.emit(ctx, notify.ActionDeleted, &Entity{ID: id})
	return nil
}

func (s *Service) ListLiveEntities(ctx context.Context) ([]homeassistant.Entity, error) {
	entities, err := s.live.ListEntities(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "live entity fetch failed", "error", err)
		return nil, core.NewAppError(
			err,
			ErrUpstreamUnavailable.Message,
			ErrUpstreamUnavailable.StatusCode,
			ErrUpstreamUnavailable.Code,
		)
	}

	return entities, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) emit(ctx context.Context, action string, e *Entity) {
	notify.Emit(ctx, s.events, s.logger, notify.NewEvent(notify.KindEntity, action, e.ID, e.Name))
}

func describeWriteError(err error) string {
	switch {
	case errors.Is(err, core.ErrDuplicateKey):
		return "an entity with this name already exists in the default room"
	case errors.Is(err, core.ErrNotFound):
		return "the default room does not exist"
	}
	return err.Error()
}
