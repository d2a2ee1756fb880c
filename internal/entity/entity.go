// AngelaMos | 2026
// entity.go

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Entity struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	EntityType string     `db:"entity_type"`
	RoomID     *int64     `db:"room_id"`
	Attributes Attributes `db:"attributes"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func (e *Entity) InRoom(roomID int64) bool {
	return e.RoomID != nil && *e.RoomID == roomID
}

// Attributes is free-form entity configuration stored as jsonb.
type Attributes map[string]any

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return string(b), nil
}

func (a *Attributes) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan attributes: unsupported type %T", src)
	}

	out := Attributes{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan attributes: %w", err)
	}
	*a = out
	return nil
}

func RoomRef(id int64) *int64 {
	return &id
}
