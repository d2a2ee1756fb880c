// AngelaMos | 2026
// sessions.go

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/core"
)

type sessionRepo struct {
	s  *Store
	mu locker
}

func (r *sessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.data.users[session.UserID]; !ok {
		return fmt.Errorf("create session: %w", core.ErrNotFound)
	}

	r.s.data.sessionSeq++
	session.ID = r.s.data.sessionSeq
	session.CreatedAt = r.s.now()
	session.Valid = true
	r.s.data.sessions[session.ID] = *session

	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, id int64) (*auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.s.data.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	return &session, nil
}

func (r *sessionRepo) Invalidate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.s.data.sessions[id]
	if !ok || !session.Valid {
		return fmt.Errorf("invalidate session: %w", core.ErrNotFound)
	}

	session.Valid = false
	r.s.data.sessions[id] = session
	return nil
}

func (r *sessionRepo) ListByUser(_ context.Context, userID int64) ([]auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := []auth.Session{}
	for _, session := range r.s.data.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		return sessions[i].ID > sessions[j].ID
	})

	return sessions, nil
}

func (r *sessionRepo) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, session := range r.s.data.sessions {
		if session.UserID == userID {
			delete(r.s.data.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *sessionRepo) CountValid(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, session := range r.s.data.sessions {
		if session.Valid {
			count++
		}
	}
	return count, nil
}
