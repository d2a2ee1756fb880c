// AngelaMos | 2026
// entity.go

package room

import (
	"time"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/entity"
)

type Room struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	OwnerID   *int64    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Detail is a room with the entities currently assigned to it.
type Detail struct {
	Room     Room
	Entities []entity.Entity
}

// Requester is the authenticated caller of a role gated operation.
type Requester struct {
	ID   int64
	Role core.Role
}
