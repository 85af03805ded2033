package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SubjectHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
}

type subjectHandlerImpl struct {
	subjectService subject.SubjectService
}

func NewSubjectHandler(subjectService subject.SubjectService) SubjectHandler {
	return &subjectHandlerImpl{
		subjectService: subjectService,
	}
}

// List implements SubjectHandler.
func (h *subjectHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	subjects, err := h.subjectService.ListSubjects(r.Context(), actor.AgencyID())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, subjects)
}

// Get implements SubjectHandler.
func (h *subjectHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	found, err := h.subjectService.GetSubject(r.Context(), actor.AgencyID(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Upsert implements SubjectHandler.
func (h *subjectHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req subject.UpsertSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode user request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.AgencyID = actor.AgencyID()

	saved, err := h.subjectService.UpsertSubject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User saved successfully", saved)
}

// Activate implements SubjectHandler.
func (h *subjectHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.subjectService.ActivateSubject(r.Context(), actor.AgencyID(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User activated successfully", result)
}
