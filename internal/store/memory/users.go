// AngelaMos | 2026
// users.go

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/user"
)

type userRepo struct {
	s  *Store
	mu locker
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	if u.Role == "" {
		u.Role = core.RoleUser
	}

	r.s.data.userSeq++
	u.ID = r.s.data.userSeq
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.data.users[u.ID] = *u

	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (r *userRepo) GetProfile(_ context.Context, id int64) (*user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	profile := &user.Profile{
		User:     u,
		Sessions: []user.OwnedSession{},
		Rooms:    []user.OwnedRoom{},
	}

	for _, sess := range r.s.data.sessions {
		if sess.UserID == id {
			profile.Sessions = append(profile.Sessions, user.OwnedSession{
				ID:        sess.ID,
				CreatedAt: sess.CreatedAt,
				Valid:     sess.Valid,
			})
		}
	}
	sort.Slice(profile.Sessions, func(i, j int) bool {
		return profile.Sessions[i].ID < profile.Sessions[j].ID
	})

	for _, rm := range r.s.data.rooms {
		if rm.OwnerID != nil && *rm.OwnerID == id {
			profile.Rooms = append(profile.Rooms, user.OwnedRoom{
				ID:       rm.ID,
				Name:     rm.Name,
				Entities: []user.OwnedEntity{},
			})
		}
	}
	sort.Slice(profile.Rooms, func(i, j int) bool {
		return profile.Rooms[i].ID < profile.Rooms[j].ID
	})

	for i := range profile.Rooms {
		for _, e := range sortedEntities(r.s.data.entities) {
			if e.InRoom(profile.Rooms[i].ID) {
				profile.Rooms[i].Entities = append(profile.Rooms[i].Entities, user.OwnedEntity{
					ID:         e.ID,
					Name:       e.Name,
					EntityType: e.EntityType,
					RoomID:     *e.RoomID,
				})
			}
		}
	}

	return profile, nil
}

func (r *userRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.s.data.users[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	existing.Role = u.Role
	existing.PasswordHash = u.PasswordHash
	existing.UpdatedAt = r.s.now()
	r.s.data.users[u.ID] = existing

	u.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.s.data.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	existing.PasswordHash = passwordHash
	existing.UpdatedAt = r.s.now()
	r.s.data.users[id] = existing
	return nil
}

func (r *userRepo) CountDependents(_ context.Context, id int64) (*user.Dependents, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.s.data.dependents(id), nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.data.users[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	deps := r.s.data.dependents(id)
	if deps.Sessions > 0 || deps.Rooms > 0 {
		return fmt.Errorf("delete user: still referenced: %w", core.ErrConflict)
	}

	delete(r.s.data.users, id)
	return nil
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.s.data.users)), nil
}

func (t *tables) dependents(userID int64) *user.Dependents {
	deps := &user.Dependents{}
	for _, sess := range t.sessions {
		if sess.UserID == userID {
			deps.Sessions++
		}
	}
	for _, rm := range t.rooms {
		if rm.OwnerID != nil && *rm.OwnerID == userID {
			deps.Rooms++
		}
	}
	return deps
}
