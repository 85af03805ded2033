package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
	loc             *time.Location
	now             func() time.Time
}

func NewScheduleHandler(scheduleService schedule.ScheduleService, loc *time.Location) ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
		loc:             loc,
		now:             time.Now,
	}
}

// List implements ScheduleHandler.
func (h *scheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	schedules, err := h.scheduleService.ListSchedules(r.Context(), actor.AgencyID())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, schedules)
}

// Create implements ScheduleHandler.
func (h *scheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req schedule.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode schedule request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.scheduleService.CreateSchedule(r.Context(), actor.AgencyID(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule created successfully", created)
}

// Get implements ScheduleHandler.
func (h *scheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	found, err := h.scheduleService.GetSchedule(r.Context(), actor.AgencyID(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Update implements ScheduleHandler.
func (h *scheduleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req schedule.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode schedule request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.scheduleService.UpdateSchedule(r.Context(), actor.AgencyID(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule updated successfully", updated)
}

// Delete implements ScheduleHandler.
func (h *scheduleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.scheduleService.DeleteSchedule(r.Context(), actor.AgencyID(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule deleted successfully", nil)
}

// Resolve implements ScheduleHandler. Users resolve their own schedule;
// agencies name one of their subjects with subjectId.
func (h *scheduleHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	subjectID := r.URL.Query().Get("subjectId")
	switch actor.(type) {
	case auth.UserActor:
		if subjectID != "" && subjectID != actor.ID() {
			response.Forbidden(w, "users can only resolve their own schedule")
			return
		}
		subjectID = actor.ID()
	case auth.AgencyActor:
		if validator.IsEmpty(subjectID) {
			var errs validator.ValidationErrors
			errs.Add("subjectId", "subjectId is required")
			response.HandleError(w, errs)
			return
		}
	}

	date := attendance.DateOf(h.now().In(h.loc))
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			var errs validator.ValidationErrors
			errs.Add("date", "date must be in YYYY-MM-DD format")
			response.HandleError(w, errs)
			return
		}
		date = parsed
	}

	resolved, err := h.scheduleService.ResolveAgencySchedule(r.Context(), actor.AgencyID(), subjectID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, schedule.NewResolvedScheduleResponse(resolved, date))
}
