package stats

import (
	"log/slog"
	"time"

	userDatamodel "github.com/worktrack/payroll/internal/core/datamodel/user"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
	"github.com/worktrack/payroll/internal/timetrack"
)

// TrackSource supplies raw tracks; satisfied by timetrack.Service.
type TrackSource interface {
	TracksInRange(userID int64, from, to time.Time) ([]*timetrack.TimeTrack, error)
}

// LedgerSource supplies rate ledgers; satisfied by rate.Service.
type LedgerSource interface {
	LedgerForUser(userID int64) ([]*rate.Rate, error)
}

// UserSource supplies user identity rows; satisfied by the user repository.
type UserSource interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetAll() ([]*userDatamodel.User, error)
}

type Service struct {
	tracks  TrackSource
	ledgers LedgerSource
	users   UserSource
	logger  *slog.Logger
	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewService(tracks TrackSource, ledgers LedgerSource, users UserSource, logger *slog.Logger) *Service {
	return &Service{
		tracks:  tracks,
		ledgers: ledgers,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// trailingWindowMonths is the dashboard's default analytics window: the
// current calendar month and the eleven before it.
const trailingWindowMonths = 12

type PeriodQuery struct {
	UserID    int64
	Period    string
	StartDate string
	EndDate   string
}

// Window resolves the query to an inclusive [from, to] day range.
func (q PeriodQuery) Window(now time.Time) (time.Time, time.Time, error) {
	if q.StartDate != "" && q.EndDate != "" {
		from, err := time.Parse(time.DateOnly, q.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, internal.NewValidationError("startDate must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
		}
		to, err := time.Parse(time.DateOnly, q.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, internal.NewValidationError("endDate must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
		}
		return from, to, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch q.Period {
	case "week":
		weekStart := today.AddDate(0, 0, -int(today.Weekday()))
		return weekStart, weekStart.AddDate(0, 0, 6), nil
	case "month":
		monthStart := MonthStart(today)
		return monthStart, monthStart.AddDate(0, 1, -1), nil
	case "", "today":
		return today, today, nil
	default:
		return time.Time{}, time.Time{}, internal.NewValidationError("period must be today, week or month", internal.ErrCodeValidationFailed)
	}
}

// PeriodStatistics computes the single-window summary for one user.
func (s *Service) PeriodStatistics(actor auth.Actor, query PeriodQuery) (PeriodSummary, error) {
	targetID := query.UserID
	if targetID == 0 {
		targetID = actor.ID
	}

	if !auth.CanView(actor, targetID) {
		s.logger.Warn("period statistics denied", "actor_id", actor.ID, "role", actor.Role, "target_user_id", targetID)
		return PeriodSummary{}, internal.ErrForbidden
	}

	from, to, err := query.Window(s.now())
	if err != nil {
		return PeriodSummary{}, err
	}

	tracks, err := s.tracks.TracksInRange(targetID, from, to)
	if err != nil {
		s.logger.Error("failed to load tracks for period statistics", "error", err, "user_id", targetID)
		return PeriodSummary{}, err
	}

	ledger, err := s.ledgers.LedgerForUser(targetID)
	if err != nil {
		s.logger.Error("failed to load ledger for period statistics", "error", err, "user_id", targetID)
		return PeriodSummary{}, err
	}

	return SummarizePeriod(tracks, ledger), nil
}

type MonthlyScope struct {
	UserID int64
	// All selects the whole staff cohort; staff actors only.
	All bool
}

// MonthlyStatistics produces the trailing-12-month buckets, oldest first.
// With All set, every user's entries are priced against that user's own
// ledger and rolled up per bucket.
func (s *Service) MonthlyStatistics(actor auth.Actor, scope MonthlyScope) ([]MonthlySummary, error) {
	userIDs, refs, err := s.resolveScope(actor, scope)
	if err != nil {
		return nil, err
	}

	months := TrailingMonths(s.now(), trailingWindowMonths)
	from := months[0]
	to := months[len(months)-1].AddDate(0, 1, -1)

	tracksByUser := make(map[int64][]*timetrack.TimeTrack, len(userIDs))
	ledgersByUser := make(map[int64][]*rate.Rate, len(userIDs))

	for _, userID := range userIDs {
		tracks, err := s.tracks.TracksInRange(userID, from, to)
		if err != nil {
			s.logger.Error("failed to load tracks for monthly statistics", "error", err, "user_id", userID)
			return nil, err
		}
		ledger, err := s.ledgers.LedgerForUser(userID)
		if err != nil {
			s.logger.Error("failed to load ledger for monthly statistics", "error", err, "user_id", userID)
			return nil, err
		}
		tracksByUser[userID] = tracks
		ledgersByUser[userID] = ledger
	}

	return SummarizeMonths(months, tracksByUser, ledgersByUser, refs), nil
}

// MonthlyEarnings produces the 12-point analytics series with derived
// average and maximum figures for one user.
func (s *Service) MonthlyEarnings(actor auth.Actor, userID int64) (EarningsSeries, error) {
	summaries, err := s.MonthlyStatistics(actor, MonthlyScope{UserID: userID})
	if err != nil {
		return EarningsSeries{}, err
	}
	return BuildEarningsSeries(summaries), nil
}

func (s *Service) resolveScope(actor auth.Actor, scope MonthlyScope) ([]int64, map[int64]UserRef, error) {
	if scope.All {
		if !actor.IsStaff() {
			s.logger.Warn("cohort statistics denied", "actor_id", actor.ID, "role", actor.Role)
			return nil, nil, internal.ErrForbidden
		}

		users, err := s.users.GetAll()
		if err != nil {
			s.logger.Error("failed to list users for cohort statistics", "error", err)
			return nil, nil, internal.NewInternalError("failed to list users", err)
		}

		ids := make([]int64, 0, len(users))
		refs := make(map[int64]UserRef, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
			refs[u.ID] = userRef(u)
		}
		return ids, refs, nil
	}

	targetID := scope.UserID
	if targetID == 0 {
		targetID = actor.ID
	}

	if !auth.CanView(actor, targetID) {
		s.logger.Warn("monthly statistics denied", "actor_id", actor.ID, "role", actor.Role, "target_user_id", targetID)
		return nil, nil, internal.ErrForbidden
	}

	u, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, nil, internal.ErrUserNotFound
	}

	return []int64{targetID}, map[int64]UserRef{targetID: userRef(u)}, nil
}

func userRef(u *userDatamodel.User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Position: u.Position}
}
