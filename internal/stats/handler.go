package stats

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/transport"
	"github.com/worktrack/payroll/pkg/logger"
)

type ServiceAPI interface {
	PeriodStatistics(actor auth.Actor, query PeriodQuery) (PeriodSummary, error)
	MonthlyStatistics(actor auth.Actor, scope MonthlyScope) ([]MonthlySummary, error)
	MonthlyEarnings(actor auth.Actor, userID int64) (EarningsSeries, error)
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

// GetStatistics handles GET /statistics.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	query := PeriodQuery{
		Period:    q.Get("period"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}

	if userIDStr := q.Get("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "userId must be an integer")
			return
		}
		query.UserID = userID
	}

	summary, err := h.Service.PeriodStatistics(actor, query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// GetMonthlyStatistics handles GET /statistics/monthly. userId=all selects
// the whole cohort and is limited to staff by the service.
func (h *Handler) GetMonthlyStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var scope MonthlyScope
	if userIDStr := r.URL.Query().Get("userId"); userIDStr != "" {
		if userIDStr == "all" {
			scope.All = true
		} else {
			userID, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil {
				h.WriteError(w, http.StatusBadRequest, "userId must be an integer or \"all\"")
				return
			}
			scope.UserID = userID
		}
	}

	summaries, err := h.Service.MonthlyStatistics(actor, scope)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summaries)
}

// GetMonthlyEarnings handles GET /analytics/monthly-earnings.
func (h *Handler) GetMonthlyEarnings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var userID int64
	if userIDStr := r.URL.Query().Get("userId"); userIDStr != "" {
		parsed, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "userId must be an integer")
			return
		}
		userID = parsed
	}

	series, err := h.Service.MonthlyEarnings(actor, userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, series)
}
