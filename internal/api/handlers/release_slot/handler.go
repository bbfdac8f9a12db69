package release_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/reservation"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

const (
	msgInvalidLocationID   = "некорректный ID локации"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgConcurrencyConflict = "слот обновляется параллельно, попробуйте ещё раз"
)

// ReleaseSlotRequest HTTP request model
type ReleaseSlotRequest struct {
	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
}

type Handler struct {
	coordinator ReservationCoordinator
	logger      Logger
}

func NewHandler(coordinator ReservationCoordinator, logger Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Handle POST /api/v1/locations/{locationId}/release-slot
// Освобождение уже свободного слота считается успехом (идемпотентность)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/release-slot - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req ReleaseSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations/{id}/release-slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/release-slot - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/release-slot - Invalid startTime %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.coordinator.Release(r.Context(), locationID, date, startTime)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrConcurrencyConflict):
			h.logger.Warn("POST /locations/{id}/release-slot - Concurrency conflict: location_id=%d, date=%s, time=%s",
				locationID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgConcurrencyConflict)

		default:
			h.logger.Error("POST /locations/{id}/release-slot - Failed to release: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /locations/{id}/release-slot - Slot released: location_id=%d, date=%s, time=%s",
		locationID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
