// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         core.Role `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// Profile is a user together with everything it owns.
type Profile struct {
	User     User
	Sessions []OwnedSession
	Rooms    []OwnedRoom
}

type OwnedSession struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Valid     bool      `db:"valid"`
}

type OwnedRoom struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Entities []OwnedEntity
}

type OwnedEntity struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	EntityType string `db:"entity_type"`
	RoomID     int64  `db:"room_id"`
}

// Dependents counts the records that block deleting a user.
type Dependents struct {
	Sessions int64 `db:"sessions"`
	Rooms    int64 `db:"rooms"`
}
