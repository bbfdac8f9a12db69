package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	getAvailableSlotsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidDateRange  = "некорректный диапазон дат"
	msgLocationNotFound  = "локация не найдена"
	msgInvalidConfig     = "некорректная конфигурация расписания"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/available-slots?startDate=&endDate=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/available-slots - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	req := &getAvailableSlotsUC.Request{LocationID: locationID}

	query := r.URL.Query()
	if startDateStr := query.Get("startDate"); startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid startDate %q: %v", startDateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		req.StartDate = &startDate
	}
	if endDateStr := query.Get("endDate"); endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid endDate %q: %v", endDateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		req.EndDate = &endDate
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlotsUC.ErrInvalidInput),
			errors.Is(err, getAvailableSlotsUC.ErrInvalidDateRange):
			h.logger.Warn("GET /locations/{id}/available-slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getAvailableSlotsUC.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id}/available-slots - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailableSlotsUC.ErrInvalidConfig):
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid config: %v", err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		default:
			h.logger.Error("GET /locations/{id}/available-slots - Failed: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/available-slots - Returned %d days: location_id=%d",
		len(resp.Days), locationID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
