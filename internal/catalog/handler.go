// AngelaMos | 2026
// handler.go

package catalog

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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/lookup", h.Lookup)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Delete("/{serviceID}", h.Delete)
			r.With(adminOnly).Put("/{serviceID}", h.Update)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListServices(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToServiceResponseList(records))
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	cmd := r.URL.Query().Get("installation_cmd")
	if cmd == "" {
		core.BadRequest(w, "installation_cmd is required")
		return
	}

	record, err := h.service.FindByInstallCommand(r.Context(), cmd)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToServiceResponse(record))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	record, err := h.service.AddService(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, CreateServiceResponse{
		Message:   "Service successfully added.",
		ServiceID: record.ID,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseServiceID(w, r)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	record, err := h.service.UpdateService(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, UpdateServiceResponse{
		ServiceID: record.ID,
		Message:   "Service updated successfully.",
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseServiceID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteService(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, StatusResponse{
		Status:  "success",
		Message: "Service deleted successfully.",
	})
}

func parseServiceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "serviceID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid service id")
		return 0, false
	}
	return id, true
}
