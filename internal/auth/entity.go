// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is a revocable login. CreatedAt is set on insert and never
// rewritten; Valid only ever moves from true to false.
type Session struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	Valid     bool      `db:"valid"`
}

func (s *Session) IsValid() bool {
	return s.Valid
}
