// AngelaMos | 2026
// service.go

package room

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/entity"
	"github.com/carterperez-dev/homemgmt/internal/notify"
)

const placeholderEntityType = "unknown"

var (
	ErrRoomNotFound   = entity.ErrRoomNotFound
	ErrEntityNotFound = entity.ErrEntityNotFound
)

var ErrRoomHasEntities = core.NewAppError(
	core.ErrConflict,
	"Cannot delete room with associated entities.",
	http.StatusConflict,
	"ROOM_HAS_ENTITIES",
)

type Service struct {
	rooms    Repository
	entities entity.Repository
	uow      UnitOfWork
	events   notify.Publisher
	logger   *slog.Logger
}

func NewService(
	rooms Repository,
	entities entity.Repository,
	uow UnitOfWork,
	events notify.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		rooms:    rooms,
		entities: entities,
		uow:      uow,
		events:   events,
		logger:   logger,
	}
}

// CreateRoom creates a room owned by the requesting administrator and moves
// every listed entity into it. One unknown entity id aborts the whole call.
func (s *Service) CreateRoom(
	ctx context.Context,
	requester Requester,
	req CreateRoomRequest,
) (*Detail, error) {
	if !requester.Role.IsAdmin() {
		return nil, core.RoleRequiredError("Only admins can create rooms.")
	}

	ctx, span := core.StartSpan(ctx, "room.CreateRoom",
		attribute.Int("room.entity_count", len(req.EntityIDs)),
	)
	defer span.End()

	var detail *Detail
	err := s.uow.Do(ctx, func(rooms Repository, entities entity.Repository) error {
		room := &Room{Name: req.Name, OwnerID: &requester.ID}
		if err := rooms.Create(ctx, room); err != nil {
			return err
		}

		for _, id := range req.EntityIDs {
			if err := entities.AssignRoom(ctx, id, room.ID); err != nil {
				switch {
				case errors.Is(err, core.ErrNotFound):
					return ErrEntityNotFound
				case errors.Is(err, core.ErrDuplicateKey):
					return entity.ErrDuplicateName
				}
				return err
			}
		}

		assigned, err := entities.ListByRoom(ctx, room.ID)
		if err != nil {
			return err
		}

		detail = &Detail{Room: *room, Entities: assigned}
		return nil
	})
	if err != nil {
		if !core.IsAppError(err) {
			core.SetSpanError(ctx, err)
		}
		return nil, err
	}

	s.emit(ctx, notify.ActionCreated, &detail.Room)
	return detail, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]Detail, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}

	entities, err := s.entities.ListByRooms(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[int64][]entity.Entity, len(rooms))
	for _, e := range entities {
		if e.RoomID != nil {
			byRoom[*e.RoomID] = append(byRoom[*e.RoomID], e)
		}
	}

	details := make([]Detail, 0, len(rooms))
	for _, r := range rooms {
		assigned := byRoom[r.ID]
		if assigned == nil {
			assigned = []entity.Entity{}
		}
		details = append(details, Detail{Room: r, Entities: assigned})
	}

	return details, nil
}

func (s *Service) GetRoomDetails(ctx context.Context, id int64) (*Detail, error) {
	return loadDetail(ctx, s.rooms, s.entities, id)
}

// UpdateRoom makes the room's entity set equal to req.EntityIDs. Entities
// in the room but not in the list are deleted, not unassigned. Listed ids
// not yet in the room are inserted as new placeholder entities; an id
// already taken elsewhere is skipped rather than moved.
func (s *Service) UpdateRoom(
	ctx context.Context,
	id int64,
	req UpdateRoomRequest,
) (*Detail, error) {
	ctx, span := core.StartSpan(ctx, "room.UpdateRoom",
		attribute.Int64("room.id", id),
	)
	defer span.End()

	var (
		detail  *Detail
		removed int64
		created int64
	)

	err := s.uow.Do(ctx, func(rooms Repository, entities entity.Repository) error {
		if _, err := rooms.GetByID(ctx, id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		current, err := entities.ListByRoom(ctx, id)
		if err != nil {
			return err
		}

		toRemove, toCreate := diffEntityIDs(current, req.EntityIDs)
		core.AddSpanEvent(ctx, "entity set diffed",
			attribute.Int("remove", len(toRemove)),
			attribute.Int("create", len(toCreate)),
		)

		removed, err = entities.DeleteManyInRoom(ctx, id, toRemove)
		if err != nil {
			return err
		}

		created, err = entities.CreateMany(ctx, placeholders(id, toCreate))
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := rooms.UpdateName(ctx, id, *req.Name); err != nil {
				return err
			}
		}

		detail, err = loadDetail(ctx, rooms, entities, id)
		return err
	})
	if err != nil {
		if !core.IsAppError(err) {
			core.SetSpanError(ctx, err)
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("room.entities_removed", removed),
		attribute.Int64("room.entities_created", created),
	)
	s.logger.InfoContext(ctx, "room updated",
		"room_id", id,
		"entities_removed", removed,
		"entities_created", created,
	)

	s.emit(ctx, notify.ActionUpdated, &detail.Room)
	return detail, nil
}

// DeleteRoom refuses while any entity is still assigned to the room.
func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	var name string
	err := s.uow.Do(ctx, func(rooms Repository, entities entity.Repository) error {
		room, err := rooms.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		name = room.Name

		assigned, err := entities.ListByRoom(ctx, id)
		if err != nil {
			return err
		}
		if len(assigned) > 0 {
			return ErrRoomHasEntities
		}

		return rooms.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, notify.ActionDeleted, &Room{ID: id, Name: name})
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.rooms.Count(ctx)
}

func (s *Service) emit(ctx context.Context, action string, r *Room) {
	notify.Emit(ctx, s.events, s.logger, notify.NewEvent(notify.KindRoom, action, r.ID, r.Name))
}

func loadDetail(
	ctx context.Context,
	rooms Repository,
	entities entity.Repository,
	id int64,
) (*Detail, error) {
	room, err := rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	assigned, err := entities.ListByRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Room: *room, Entities: assigned}, nil
}

// diffEntityIDs returns current minus requested and requested minus
// current, each in first-seen order without duplicates.
func diffEntityIDs(current []entity.Entity, requested []int64) ([]int64, []int64) {
	have := make(map[int64]struct{}, len(current))
	for _, e := range current {
		have[e.ID] = struct{}{}
	}

	want := make(map[int64]struct{}, len(requested))
	toCreate := make([]int64, 0)
	for _, id := range requested {
		if _, seen := want[id]; seen {
			continue
		}
		want[id] = struct{}{}
		if _, ok := have[id]; !ok {
			toCreate = append(toCreate, id)
		}
	}

	toRemove := make([]int64, 0)
	for _, e := range current {
		if _, ok := want[e.ID]; !ok {
			toRemove = append(toRemove, e.ID)
		}
	}

	return toRemove, toCreate
}

func placeholders(roomID int64, ids []int64) []entity.Entity {
	out := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.Entity{
			ID:         id,
			Name:       "entity-" + strconv.FormatInt(id, 10),
			EntityType: placeholderEntityType,
			RoomID:     entity.RoomRef(roomID),
		})
	}
	return out
}
