// AngelaMos | 2026
// store.go

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/catalog"
	"github.com/carterperez-dev/homemgmt/internal/entity"
	"github.com/carterperez-dev/homemgmt/internal/room"
	"github.com/carterperez-dev/homemgmt/internal/user"
)

// Store keeps every table in process memory and enforces the same unique
// and reference constraints as the relational schema. It is safe for
// concurrent use.
type Store struct {
	mu   sync.RWMutex
	data *tables
	now  func() time.Time
}

type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// held stands in for the store mutex inside a transaction that already
// owns it.
type held struct{}

func (held) Lock()    {}
func (held) Unlock()  {}
func (held) RLock()   {}
func (held) RUnlock() {}

type tables struct {
	users    map[int64]user.User
	sessions map[int64]auth.Session
	rooms    map[int64]room.Room
	entities map[int64]entity.Entity
	services map[int64]catalog.ServiceRecord

	userSeq    int64
	sessionSeq int64
	roomSeq    int64
	entitySeq  int64
	serviceSeq int64
}

func New() *Store {
	return &Store{
		data: &tables{
			users:    map[int64]user.User{},
			sessions: map[int64]auth.Session{},
			rooms:    map[int64]room.Room{},
			entities: map[int64]entity.Entity{},
			services: map[int64]catalog.ServiceRecord{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() user.Repository {
	return &userRepo{s: s, mu: &s.mu}
}

func (s *Store) Sessions() auth.Repository {
	return &sessionRepo{s: s, mu: &s.mu}
}

func (s *Store) Rooms() room.Repository {
	return &roomRepo{s: s, mu: &s.mu}
}

func (s *Store) Entities() entity.Repository {
	return &entityRepo{s: s, mu: &s.mu}
}

func (s *Store) Services() catalog.Repository {
	return &serviceRepo{s: s, mu: &s.mu}
}

func (s *Store) UserTransactor() user.Transactor {
	return transactor{s: s}
}

func (s *Store) RoomUnitOfWork() room.UnitOfWork {
	return transactor{s: s}
}

// Ping always succeeds; it lets the store stand in for a database in
// readiness checks.
func (s *Store) Ping(context.Context) error {
	return nil
}

// atomically runs fn with the store write-locked for its whole duration
// and restores the pre-transaction tables if fn fails. Repositories handed
// to fn must come from txRepos so they do not lock again.
func (s *Store) atomically(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

type transactor struct {
	s *Store
}

func (t transactor) WithinTx(ctx context.Context, fn func(repo user.Repository) error) error {
	return t.s.atomically(func() error {
		return fn(&userRepo{s: t.s, mu: held{}})
	})
}

func (t transactor) Do(
	ctx context.Context,
	fn func(rooms room.Repository, entities entity.Repository) error,
) error {
	return t.s.atomically(func() error {
		return fn(&roomRepo{s: t.s, mu: held{}}, &entityRepo{s: t.s, mu: held{}})
	})
}

func (t *tables) clone() *tables {
	out := &tables{
		users:      make(map[int64]user.User, len(t.users)),
		sessions:   make(map[int64]auth.Session, len(t.sessions)),
		rooms:      make(map[int64]room.Room, len(t.rooms)),
		entities:   make(map[int64]entity.Entity, len(t.entities)),
		services:   make(map[int64]catalog.ServiceRecord, len(t.services)),
		userSeq:    t.userSeq,
		sessionSeq: t.sessionSeq,
		roomSeq:    t.roomSeq,
		entitySeq:  t.entitySeq,
		serviceSeq: t.serviceSeq,
	}
	for k, v := range t.users {
		out.users[k] = v
	}
	for k, v := range t.sessions {
		out.sessions[k] = v
	}
	for k, v := range t.rooms {
		out.rooms[k] = cloneRoom(v)
	}
	for k, v := range t.entities {
		out.entities[k] = cloneEntity(v)
	}
	for k, v := range t.services {
		out.services[k] = v
	}
	return out
}

func cloneRoom(r room.Room) room.Room {
	if r.OwnerID != nil {
		owner := *r.OwnerID
		r.OwnerID = &owner
	}
	return r
}

func cloneEntity(e entity.Entity) entity.Entity {
	if e.RoomID != nil {
		e.RoomID = entity.RoomRef(*e.RoomID)
	}
	if e.Attributes != nil {
		attrs := make(entity.Attributes, len(e.Attributes))
		for k, v := range e.Attributes {
			attrs[k] = v
		}
		e.Attributes = attrs
	}
	return e
}
