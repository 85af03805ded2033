package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

const (
	EventCheckedIn  = "attendance.checked_in"
	EventCheckedOut = "attendance.checked_out"

	streamKeepalive = 30 * time.Second
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	RecordManual(w http.ResponseWriter, r *http.Request)
	AgencyHistory(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	events            *sse.Hub
	now               func() time.Time
}

// NewAttendanceHandler publishes recorded events to hub, keyed by agency.
func NewAttendanceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub) AttendanceHandler {
	if hub == nil {
		hub = sse.NewHub()
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		events:            hub,
		now:               time.Now,
	}
}

// eventBody is the body shared by check-in and checkout.
type eventBody struct {
	Method attendance.Method `json:"method"`
	Notes  string            `json:"notes"`
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var body eventBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode check-in request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), attendance.CheckInRequest{
		SubjectID: actor.ID(),
		AgencyID:  actor.AgencyID(),
		Timestamp: h.now(),
		Method:    body.Method,
		Notes:     body.Notes,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := attendance.NewAttendanceResponse(result)
	h.events.Publish(result.AgencyID, EventCheckedIn, resp)
	response.Created(w, "Check in successful", resp)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var body eventBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode check-out request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), attendance.CheckOutRequest{
		SubjectID: actor.ID(),
		AgencyID:  actor.AgencyID(),
		Timestamp: h.now(),
		Method:    body.Method,
		Notes:     body.Notes,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := attendance.NewAttendanceResponse(result)
	h.events.Publish(result.AgencyID, EventCheckedOut, resp)
	response.SuccessWithMessage(w, "Check out successful", resp)
}

// RecordManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordManual(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.ManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode manual attendance request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.AgencyID = actor.AgencyID()

	result, err := h.attendanceService.RecordManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := attendance.NewAttendanceResponse(result)
	event := EventCheckedIn
	if req.Type == attendance.EntryCheckOut {
		event = EventCheckedOut
	}
	h.events.Publish(result.AgencyID, event, resp)
	response.Created(w, "Attendance recorded successfully", resp)
}

// AgencyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) AgencyHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := attendance.HistoryQuery{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		UserID:    r.URL.Query().Get("userId"),
	}
	h.history(w, r, actor.AgencyID(), query)
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := attendance.HistoryQuery{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		UserID:    actor.ID(),
	}
	h.history(w, r, actor.AgencyID(), query)
}

func (h *attendanceHandlerImpl) history(w http.ResponseWriter, r *http.Request, agencyID string, query attendance.HistoryQuery) {
	filter, err := query.ToFilter(agencyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.Query(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewAttendanceResponses(records))
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.Today(r.Context(), actor.ID(), h.now())
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		response.SuccessWithMessage(w, "No attendance recorded today", nil)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewAttendanceResponse(record))
}

// Stream implements AttendanceHandler. It pushes the agency's check-ins and
// checkouts as server-sent events until the client disconnects.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(actor.AgencyID())
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"agencyId\":%q}\n\n", actor.AgencyID())
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode attendance event", "event", event.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", h.now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
