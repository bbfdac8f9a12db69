package location_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/service/status"
	"github.com/m04kA/SMC-ScheduleService/internal/service/status/models"
)

const (
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgNotFound           = "локация не найдена"
)

type Handler struct {
	service StatusService
	logger  Logger
}

func NewHandler(service StatusService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/locations/{locationId}/status
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	locationID, ok := h.locationID(w, r, "GET /locations/{id}/status")
	if !ok {
		return
	}

	resp, err := h.service.GetStatus(r.Context(), locationID)
	if err != nil {
		h.respondError(w, "GET /locations/{id}/status", locationID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleUpdate PATCH /api/v1/locations/{locationId}/status
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	locationID, ok := h.locationID(w, r, "PATCH /locations/{id}/status")
	if !ok {
		return
	}

	userID, ok := h.userID(w, r, "PATCH /locations/{id}/status")
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /locations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateStatus(r.Context(), locationID, userID, req)
	if err != nil {
		h.respondError(w, "PATCH /locations/{id}/status", locationID, err)
		return
	}

	h.logger.Info("PATCH /locations/{id}/status - Status updated: location_id=%d", locationID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleToggleOpen PATCH /api/v1/locations/{locationId}/toggle-open
func (h *Handler) HandleToggleOpen(w http.ResponseWriter, r *http.Request) {
	locationID, ok := h.locationID(w, r, "PATCH /locations/{id}/toggle-open")
	if !ok {
		return
	}

	userID, ok := h.userID(w, r, "PATCH /locations/{id}/toggle-open")
	if !ok {
		return
	}

	resp, err := h.service.ToggleOpen(r.Context(), locationID, userID)
	if err != nil {
		h.respondError(w, "PATCH /locations/{id}/toggle-open", locationID, err)
		return
	}

	h.logger.Info("PATCH /locations/{id}/toggle-open - Toggled: location_id=%d, is_open=%t",
		locationID, resp.IsOpen)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleWaitTime PATCH /api/v1/locations/{locationId}/wait-time
func (h *Handler) HandleWaitTime(w http.ResponseWriter, r *http.Request) {
	locationID, ok := h.locationID(w, r, "PATCH /locations/{id}/wait-time")
	if !ok {
		return
	}

	userID, ok := h.userID(w, r, "PATCH /locations/{id}/wait-time")
	if !ok {
		return
	}

	var req models.UpdateWaitTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /locations/{id}/wait-time - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateWaitTime(r.Context(), locationID, userID, req)
	if err != nil {
		h.respondError(w, "PATCH /locations/{id}/wait-time", locationID, err)
		return
	}

	h.logger.Info("PATCH /locations/{id}/wait-time - Wait time updated: location_id=%d, wait=%d, queue=%d",
		locationID, resp.CurrentWaitTime, resp.CurrentQueue)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) locationID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid location ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return 0, false
	}
	return locationID, true
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return "", false
	}
	return userID, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, locationID int64, err error) {
	switch {
	case errors.Is(err, status.ErrLocationNotFound):
		h.logger.Warn("%s - Location not found: location_id=%d", op, locationID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, status.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: location_id=%d", op, locationID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, status.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("%s - Failed: location_id=%d, error=%v", op, locationID, err)
		handlers.RespondInternalError(w)
	}
}
