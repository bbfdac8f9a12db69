package get_published_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	getPublishedCalendarUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_published_calendar"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidDateRange  = "некорректный диапазон дат"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgLocationNotFound  = "локация не найдена"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	useCase GetPublishedCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetPublishedCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/calendar?startDate=&endDate=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/calendar - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /locations/{id}/calendar - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	startDate, err := time.Parse(domain.DateFormat, query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /locations/{id}/calendar - Invalid startDate %q: %v", query.Get("startDate"), err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}
	endDate, err := time.Parse(domain.DateFormat, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /locations/{id}/calendar - Invalid endDate %q: %v", query.Get("endDate"), err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &getPublishedCalendarUC.Request{
		UserID:     userID,
		LocationID: locationID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, getPublishedCalendarUC.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/calendar - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getPublishedCalendarUC.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id}/calendar - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getPublishedCalendarUC.ErrAccessDenied):
			h.logger.Warn("GET /locations/{id}/calendar - Access denied: location_id=%d, user_id=%s",
				locationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /locations/{id}/calendar - Failed: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/calendar - Returned %d days: location_id=%d", len(resp.Days), locationID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
