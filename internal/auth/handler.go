// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Get("/sessions", h.GetSessions)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/users/{userID}/sessions", h.GetUserSessions)
				r.Delete("/users/{userID}/sessions", h.PurgeUserSessions)
			})
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

// Logout takes the token from the body, falling back to the bearer header.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil &&
		!errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	token := req.Token
	if token == "" {
		token = middleware.ExtractToken(r)
	}
	if token == "" {
		core.BadRequest(w, "token is required")
		return
	}

	resp, err := h.service.Logout(r.Context(), token)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	h.writeSessions(w, r, middleware.GetUserID(r.Context()))
}

func (h *Handler) GetUserSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	h.writeSessions(w, r, userID)
}

func (h *Handler) PurgeUserSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.PurgeSessions(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, PurgeResponse{Deleted: deleted})
}

func (h *Handler) writeSessions(w http.ResponseWriter, r *http.Request, userID int64) {
	sessions, err := h.service.ListSessions(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToSessionResponseList(sessions))
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid user id")
		return 0, false
	}
	return id, true
}
