// AngelaMos | 2026
// handler.go

package room

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/middleware"
)

type Handler struct {
	service      *Service
	validator    *validator.Validate
	listEntities http.HandlerFunc
}

// NewHandler takes the handler that lists a room's entities, which lives
// with the entity routes.
func NewHandler(service *Service, listEntities http.HandlerFunc) *Handler {
	return &Handler{
		service:      service,
		validator:    validator.New(validator.WithRequiredStructEnabled()),
		listEntities: listEntities,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/rooms", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{roomID}", h.Get)
		r.Get("/{roomID}/entities", h.listEntities)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Put("/{roomID}", h.Update)
			r.Delete("/{roomID}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	requester := Requester{
		ID:   middleware.GetUserID(r.Context()),
		Role: middleware.GetUserRole(r.Context()),
	}

	detail, err := h.service.CreateRoom(r.Context(), requester, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToRoomResponse(detail))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListRooms(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoomResponseList(details))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseRoomID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetRoomDetails(r.Context(), roomID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoomDetailsResponse(detail))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseRoomID(w, r)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.UpdateRoom(r.Context(), roomID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoomResponse(detail))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseRoomID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(r.Context(), roomID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, StatusResponse{
		Status:  "success",
		Message: "Room deleted successfully.",
	})
}

func parseRoomID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid room id")
		return 0, false
	}
	return id, true
}
