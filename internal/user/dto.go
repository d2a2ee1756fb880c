// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

type CreateUserRequest struct {
	Email    string    `json:"email"    validate:"required,email,max=255"`
	Password string    `json:"password" validate:"required,min=8,max=128"`
	Role     core.Role `json:"role"     validate:"required,oneof=ADMIN USER"`
}

type UpdateUserRequest struct {
	Role     *core.Role `json:"role,omitempty"     validate:"omitempty,oneof=ADMIN USER"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      core.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateUserResponse struct {
	UserID int64 `json:"user_id"`
}

type SessionResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Valid     bool      `json:"valid"`
}

type EntityResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
}

type RoomResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Entities []EntityResponse `json:"entities"`
}

type ProfileResponse struct {
	UserResponse
	Sessions []SessionResponse `json:"sessions"`
	Rooms    []RoomResponse    `json:"rooms"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToProfileResponse(p *Profile) ProfileResponse {
	resp := ProfileResponse{
		UserResponse: ToUserResponse(&p.User),
		Sessions:     make([]SessionResponse, 0, len(p.Sessions)),
		Rooms:        make([]RoomResponse, 0, len(p.Rooms)),
	}

	for _, s := range p.Sessions {
		resp.Sessions = append(resp.Sessions, SessionResponse{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			Valid:     s.Valid,
		})
	}

	for _, r := range p.Rooms {
		room := RoomResponse{
			ID:       r.ID,
			Name:     r.Name,
			Entities: make([]EntityResponse, 0, len(r.Entities)),
		}
		for _, e := range r.Entities {
			room.Entities = append(room.Entities, EntityResponse{
				ID:         e.ID,
				Name:       e.Name,
				EntityType: e.EntityType,
			})
		}
		resp.Rooms = append(resp.Rooms, room)
	}

	return resp
}
