// AngelaMos | 2026
// handler.go

package entity

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
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/entities", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListLive)
		r.Post("/", h.Create)
		r.Post("/default", h.Add)
		r.Put("/{entityID}", h.Update)
		r.Delete("/{entityID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.CreateEntity(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, CreateEntityResponse{EntityID: entity.ID})
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.AddEntity(r.Context(), middleware.GetUserRole(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, AddEntityResponse{
		Message: "Entity added successfully.",
		Entity:  ToEntityResponse(entity),
	})
}

// ListByRoom serves the entities of one room. Rooms mount it under their
// own path.
func (h *Handler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "invalid room id")
		return
	}

	entities, err := h.service.ListEntitiesByRoom(r.Context(), roomID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToEntityResponseList(entities))
}

func (h *Handler) ListLive(w http.ResponseWriter, r *http.Request) {
	entities, err := h.service.ListLiveEntities(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, LiveEntitiesResponse{Entities: entities})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.UpdateEntity(r.Context(), chi.URLParam(r, "entityID"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToEntityResponse(entity))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "entityID"), 10, 64)
	if err != nil {
		core.JSONError(w, ErrInvalidEntityID)
		return
	}

	if err := h.service.DeleteEntity(r.Context(), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, StatusResponse{
		Status:  "success",
		Message: "Entity deleted successfully.",
	})
}
