// AngelaMos | 2026
// role.go

package core

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("parse role %q: %w", s, ErrInvalidInput)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
