// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID    int64     `json:"id"`
	Email string    `json:"email"`
	Role  core.Role `json:"role"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	SessionID int64        `json:"session_id"`
	User      UserResponse `json:"user"`
}

type LogoutResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SessionResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Valid     bool      `json:"valid"`
}

type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

func ToSessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
		Valid:     s.Valid,
	}
}

func ToSessionResponseList(sessions []Session) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, ToSessionResponse(&sessions[i]))
	}
	return responses
}
