package publish_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	publishCalendarUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/publish_calendar"
)

const (
	msgInvalidLocationID   = "некорректный ID локации"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgLocationNotFound    = "локация не найдена"
	msgForbidden           = "доступ запрещен"
	msgInvalidConfig       = "некорректная конфигурация расписания"
	msgInvalidDateRange    = "некорректный диапазон дат"
	msgConcurrencyConflict = "календарь обновляется параллельно, попробуйте ещё раз"
)

// PublishCalendarRequest HTTP request model
type PublishCalendarRequest struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
}

type Handler struct {
	useCase PublishCalendarUseCase
	logger  Logger
}

func NewHandler(useCase PublishCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/locations/{locationId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/available-slots - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /locations/{id}/available-slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PublishCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations/{id}/available-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startDate, err := time.Parse(domain.DateFormat, req.StartDate)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/available-slots - Invalid startDate %q: %v", req.StartDate, err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	endDate, err := time.Parse(domain.DateFormat, req.EndDate)
	if err != nil {
		h.logger.Warn("POST /locations/{id}/available-slots - Invalid endDate %q: %v", req.EndDate, err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &publishCalendarUC.Request{
		UserID:     userID,
		LocationID: locationID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, publishCalendarUC.ErrInvalidInput):
			h.logger.Warn("POST /locations/{id}/available-slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, publishCalendarUC.ErrLocationNotFound):
			h.logger.Warn("POST /locations/{id}/available-slots - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, publishCalendarUC.ErrAccessDenied):
			h.logger.Warn("POST /locations/{id}/available-slots - Access denied: location_id=%d, user_id=%s",
				locationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, publishCalendarUC.ErrInvalidConfig):
			h.logger.Warn("POST /locations/{id}/available-slots - Invalid config: %v", err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		case errors.Is(err, publishCalendarUC.ErrInvalidDateRange):
			h.logger.Warn("POST /locations/{id}/available-slots - Invalid date range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, publishCalendarUC.ErrConcurrencyConflict):
			h.logger.Warn("POST /locations/{id}/available-slots - Concurrency conflict: location_id=%d", locationID)
			handlers.RespondConflict(w, msgConcurrencyConflict)

		default:
			h.logger.Error("POST /locations/{id}/available-slots - Failed to publish: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /locations/{id}/available-slots - Published %d days: location_id=%d, user_id=%s",
		len(resp.Days), locationID, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
