// AngelaMos | 2026
// entities.go

package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/entity"
)

type entityRepo struct {
	s  *Store
	mu locker
}

func (r *entityRepo) Create(_ context.Context, e *entity.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.s.data.checkEntity(e, 0); err != nil {
		return fmt.Errorf("create entity: %w", err)
	}

	if e.Attributes == nil {
		e.Attributes = entity.Attributes{}
	}

	r.s.data.entitySeq++
	e.ID = r.s.data.entitySeq
	e.CreatedAt = r.s.now()
	e.UpdatedAt = e.CreatedAt
	r.s.data.entities[e.ID] = cloneEntity(*e)

	return nil
}

func (r *entityRepo) CreateMany(_ context.Context, entities []entity.Entity) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var inserted int64
	for _, e := range entities {
		if _, taken := r.s.data.entities[e.ID]; taken {
			continue
		}

		err := r.s.data.checkEntity(&e, e.ID)
		if err == nil {
			e.CreatedAt = r.s.now()
			e.UpdatedAt = e.CreatedAt
			if e.Attributes == nil {
				e.Attributes = entity.Attributes{}
			}
			r.s.data.entities[e.ID] = cloneEntity(e)
			inserted++
			if e.ID > r.s.data.entitySeq {
				r.s.data.entitySeq = e.ID
			}
			continue
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			continue
		}
		return 0, fmt.Errorf("create entities: %w", err)
	}

	return inserted, nil
}

func (r *entityRepo) GetByID(_ context.Context, id int64) (*entity.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.s.data.entities[id]
	if !ok {
		return nil, fmt.Errorf("get entity: %w", core.ErrNotFound)
	}
	e = cloneEntity(e)
	return &e, nil
}

func (r *entityRepo) FindInRoomByName(
	_ context.Context,
	roomID int64,
	name string,
) (*entity.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.s.data.entities {
		if e.InRoom(roomID) && e.Name == name {
			e = cloneEntity(e)
			return &e, nil
		}
	}
	return nil, fmt.Errorf("find entity: %w", core.ErrNotFound)
}

func (r *entityRepo) ListByRoom(_ context.Context, roomID int64) ([]entity.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Entity{}
	for _, e := range sortedEntities(r.s.data.entities) {
		if e.InRoom(roomID) {
			out = append(out, cloneEntity(e))
		}
	}
	return out, nil
}

func (r *entityRepo) ListByRooms(_ context.Context, roomIDs []int64) ([]entity.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = struct{}{}
	}

	out := []entity.Entity{}
	for _, e := range sortedEntities(r.s.data.entities) {
		if e.RoomID == nil {
			continue
		}
		if _, ok := wanted[*e.RoomID]; ok {
			out = append(out, cloneEntity(e))
		}
	}
	return out, nil
}

func (r *entityRepo) RoomExists(_ context.Context, roomID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.s.data.rooms[roomID]
	return ok, nil
}

func (r *entityRepo) AssignRoom(_ context.Context, id, roomID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.s.data.entities[id]
	if !ok {
		return fmt.Errorf("assign entity room: %w", core.ErrNotFound)
	}

	e.RoomID = entity.RoomRef(roomID)
	if err := r.s.data.checkEntity(&e, id); err != nil {
		return fmt.Errorf("assign entity room: %w", err)
	}

	e.UpdatedAt = r.s.now()
	r.s.data.entities[id] = e
	return nil
}

func (r *entityRepo) Update(_ context.Context, e *entity.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.s.data.entities[e.ID]
	if !ok {
		return fmt.Errorf("update entity: %w", core.ErrNotFound)
	}

	existing.Name = e.Name
	existing.EntityType = e.EntityType
	if err := r.s.data.checkEntity(&existing, e.ID); err != nil {
		return fmt.Errorf("update entity: %w", err)
	}

	existing.UpdatedAt = r.s.now()
	r.s.data.entities[e.ID] = existing
	e.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *entityRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.data.entities[id]; !ok {
		return fmt.Errorf("delete entity: %w", core.ErrNotFound)
	}
	delete(r.s.data.entities, id)
	return nil
}

func (r *entityRepo) DeleteManyInRoom(
	_ context.Context,
	roomID int64,
	ids []int64,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		e, ok := r.s.data.entities[id]
		if ok && e.InRoom(roomID) {
			delete(r.s.data.entities, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *entityRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.s.data.entities)), nil
}

// checkEntity reports core.ErrNotFound for an unknown room and
// core.ErrDuplicateKey when another entity already holds the same name in
// the same room. Entities without a room never collide.
func (t *tables) checkEntity(e *entity.Entity, selfID int64) error {
	if e.RoomID == nil {
		return nil
	}
	if _, ok := t.rooms[*e.RoomID]; !ok {
		return core.ErrNotFound
	}
	for id, other := range t.entities {
		if id != selfID && other.InRoom(*e.RoomID) && other.Name == e.Name {
			return core.ErrDuplicateKey
		}
	}
	return nil
}

func sortedEntities(m map[int64]entity.Entity) []entity.Entity {
	out := make([]entity.Entity, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
