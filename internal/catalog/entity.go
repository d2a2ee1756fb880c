// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"
)

// ServiceRecord is an installable integration: a name and the command
// that installs it.
type ServiceRecord struct {
	ID              int64     `db:"id"`
	ServiceName     string    `db:"service_name"`
	InstallationCmd string    `db:"installation_cmd"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
