package book_slot

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
	msgSlotNotAvailable    = "слот недоступен"
	msgConcurrencyConflict = "слот обновляется параллельно, попробуйте ещё раз"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
	BookingID int64  `json:"bookingId"`
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

// Handle POST /api/v1/locations/{locationId}/book-slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/book-slot - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations/{id}/book-slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/book-slot - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/book-slot - Invalid startTime %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.BookingID <= 0 {
		h.logger.Warn("POST /locations/{id}/book-slot - Invalid booking ID: %d", req.BookingID)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.coordinator.Reserve(r.Context(), locationID, date, startTime, req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrSlotUnavailable):
			h.logger.Warn("POST /locations/{id}/book-slot - Slot not available: location_id=%d, date=%s, time=%s",
				locationID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, reservation.ErrConcurrencyConflict):
			h.logger.Warn("POST /locations/{id}/book-slot - Concurrency conflict: location_id=%d, date=%s, time=%s",
				locationID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgConcurrencyConflict)

		default:
			h.logger.Error("POST /locations/{id}/book-slot - Failed to reserve: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /locations/{id}/book-slot - Slot reserved: location_id=%d, date=%s, time=%s, booking_id=%d",
		locationID, req.Date, req.StartTime, req.BookingID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
