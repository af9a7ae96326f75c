package timetrack

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/transport"
	"github.com/worktrack/payroll/pkg/logger"
)

type ServiceAPI interface {
	ListTracks(actor auth.Actor, filter ListFilter) ([]PricedTimeTrack, error)
	CreateTrack(actor auth.Actor, dto CreateTimeTrackDTO) (*TimeTrack, error)
	UpdateTrack(actor auth.Actor, trackID int64, dto UpdateTimeTrackDTO) (*TimeTrack, error)
	DeleteTrack(actor auth.Actor, trackID int64) error
	MarkPaid(actor auth.Actor, dto MarkPaidDTO) (MarkPaidResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tracks, err := h.Service.ListTracks(actor, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tracks)
}

func (h *Handler) CreateTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTimeTrackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	track, err := h.Service.CreateTrack(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, track)
}

func (h *Handler) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	trackID, ok := h.trackIDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateTimeTrackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	track, err := h.Service.UpdateTrack(actor, trackID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, track)
}

func (h *Handler) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	trackID, ok := h.trackIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTrack(actor, trackID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto MarkPaidDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.MarkPaid(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) trackIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid track ID")
		return 0, false
	}
	return id, true
}

func filterFromQuery(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	q := r.URL.Query()

	if userIDStr := q.Get("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			return filter, errInvalidQuery("userId must be an integer")
		}
		filter.UserID = userID
	}

	if dateStr := q.Get("date"); dateStr != "" {
		date, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return filter, errInvalidQuery("date must be a YYYY-MM-DD date")
		}
		filter.Date = &date
		return filter, nil
	}

	startStr, endStr := q.Get("startDate"), q.Get("endDate")
	if startStr != "" && endStr != "" {
		from, err := time.Parse(time.DateOnly, startStr)
		if err != nil {
			return filter, errInvalidQuery("startDate must be a YYYY-MM-DD date")
		}
		to, err := time.Parse(time.DateOnly, endStr)
		if err != nil {
			return filter, errInvalidQuery("endDate must be a YYYY-MM-DD date")
		}
		filter.From = &from
		filter.To = &to
	}

	return filter, nil
}

type errInvalidQuery string

func (e errInvalidQuery) Error() string { return string(e) }
