// AngelaMos | 2026
// rooms.go

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/room"
)

type roomRepo struct {
	s  *Store
	mu locker
}

func (r *roomRepo) Create(_ context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rm.OwnerID != nil {
		if _, ok := r.s.data.users[*rm.OwnerID]; !ok {
			return fmt.Errorf("create room: %w", core.ErrNotFound)
		}
	}

	r.s.data.roomSeq++
	rm.ID = r.s.data.roomSeq
	rm.CreatedAt = r.s.now()
	rm.UpdatedAt = rm.CreatedAt
	r.s.data.rooms[rm.ID] = cloneRoom(*rm)

	return nil
}

func (r *roomRepo) GetByID(_ context.Context, id int64) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.s.data.rooms[id]
	if !ok {
		return nil, fmt.Errorf("get room: %w", core.ErrNotFound)
	}
	rm = cloneRoom(rm)
	return &rm, nil
}

func (r *roomRepo) List(context.Context) ([]room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]room.Room, 0, len(r.s.data.rooms))
	for _, rm := range r.s.data.rooms {
		rooms = append(rooms, cloneRoom(rm))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	return rooms, nil
}

func (r *roomRepo) UpdateName(_ context.Context, id int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.s.data.rooms[id]
	if !ok {
		return fmt.Errorf("update room: %w", core.ErrNotFound)
	}

	rm.Name = name
	rm.UpdatedAt = r.s.now()
	r.s.data.rooms[id] = rm
	return nil
}

func (r *roomRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.data.rooms[id]; !ok {
		return fmt.Errorf("delete room: %w", core.ErrNotFound)
	}

	for _, e := range r.s.data.entities {
		if e.InRoom(id) {
			return fmt.Errorf("delete room: still referenced: %w", core.ErrConflict)
		}
	}

	delete(r.s.data.rooms, id)
	return nil
}

func (r *roomRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.s.data.rooms)), nil
}
