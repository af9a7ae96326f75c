package timetrack

import (
	"log/slog"
	"time"

	trackDatamodel "github.com/worktrack/payroll/internal/core/datamodel/timetrack"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
)

type RepositoryAPI interface {
	GetByID(id int64) (*trackDatamodel.TimeTrack, error)
	List(filter ListFilter) ([]*trackDatamodel.TimeTrack, error)
	Create(track *trackDatamodel.TimeTrack) error
	Update(track *trackDatamodel.TimeTrack) error
	Delete(id int64) error
	// MarkPaid flips was_paid on the given ids with a conditional update
	// (was_paid = false), returning the number of rows affected.
	MarkPaid(ids []int64) (int64, error)
}

// LedgerProvider supplies rate ledgers for pricing; satisfied by rate.Service.
type LedgerProvider interface {
	LedgerForUser(userID int64) ([]*rate.Rate, error)
}

type Service struct {
	repo    RepositoryAPI
	ledgers LedgerProvider
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, ledgers LedgerProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		ledgers: ledgers,
		logger:  logger,
	}
}

// ListTracks returns priced tracks for one user. A plain user may only list
// its own records.
func (s *Service) ListTracks(actor auth.Actor, filter ListFilter) ([]PricedTimeTrack, error) {
	if filter.UserID == 0 {
		filter.UserID = actor.ID
	}

	if !auth.CanView(actor, filter.UserID) {
		s.logger.Warn("list tracks denied", "actor_id", actor.ID, "role", actor.Role, "target_user_id", filter.UserID)
		return nil, internal.ErrForbidden
	}

	records, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list time tracks", "error", err, "user_id", filter.UserID)
		return nil, internal.NewInternalError("failed to list time tracks", err)
	}

	ledger, err := s.ledgers.LedgerForUser(filter.UserID)
	if err != nil {
		s.logger.Error("failed to load rate ledger", "error", err, "user_id", filter.UserID)
		return nil, err
	}

	return PriceTracks(FromDataModelSlice(records), ledger), nil
}

// CreateTrack records time for the acting user. Entries always start unpaid.
func (s *Service) CreateTrack(actor auth.Actor, dto CreateTimeTrackDTO) (*TimeTrack, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("time track validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	record := &trackDatamodel.TimeTrack{
		UserID:  actor.ID,
		Date:    dto.WorkDate(),
		Time:    dto.Time,
		Comment: dto.Comment,
		WasPaid: false,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create time track", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create time track", err)
	}

	s.logger.Info("time track created",
		"track_id", record.ID,
		"user_id", actor.ID,
		"date", dto.Date,
		"minutes", dto.Time)

	return FromDataModel(record), nil
}

// UpdateTrack edits time and comment. Only the owner may edit, and only while
// the entry is unpaid; a foreign entry reads as NotFound so its existence
// does not leak.
func (s *Service) UpdateTrack(actor auth.Actor, trackID int64, dto UpdateTimeTrackDTO) (*TimeTrack, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(trackID)
	if err != nil {
		return nil, internal.ErrTimeTrackNotFound
	}

	if record.UserID != actor.ID {
		return nil, internal.ErrTimeTrackNotFound
	}

	// ownership already established, so a policy refusal means the entry is paid
	if !auth.CanMutate(actor, record.UserID, record.WasPaid) {
		s.logger.Warn("edit of paid time track rejected", "track_id", trackID, "user_id", actor.ID)
		return nil, internal.ErrTrackAlreadyPaid
	}

	record.Time = dto.Time
	record.Comment = dto.Comment

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update time track", "error", err, "track_id", trackID)
		return nil, internal.NewInternalError("failed to update time track", err)
	}

	s.logger.Info("time track updated", "track_id", trackID, "user_id", actor.ID, "minutes", dto.Time)

	return FromDataModel(record), nil
}

// DeleteTrack removes an unpaid entry owned by the actor.
func (s *Service) DeleteTrack(actor auth.Actor, trackID int64) error {
	record, err := s.repo.GetByID(trackID)
	if err != nil {
		return internal.ErrTimeTrackNotFound
	}

	if record.UserID != actor.ID {
		return internal.ErrTimeTrackNotFound
	}

	if !auth.CanMutate(actor, record.UserID, record.WasPaid) {
		s.logger.Warn("delete of paid time track rejected", "track_id", trackID, "user_id", actor.ID)
		return internal.ErrTrackAlreadyPaid
	}

	if err := s.repo.Delete(trackID); err != nil {
		s.logger.Error("failed to delete time track", "error", err, "track_id", trackID)
		return internal.NewInternalError("failed to delete time track", err)
	}

	s.logger.Info("time track deleted", "track_id", trackID, "user_id", actor.ID)
	return nil
}

// MarkPaid moves a batch of entries Unpaid -> Paid. Already-paid and unknown
// ids are skipped silently; the result carries the count actually flipped, so
// a repeated call reports zero. Admin only.
func (s *Service) MarkPaid(actor auth.Actor, dto MarkPaidDTO) (MarkPaidResult, error) {
	if !auth.CanMarkPaid(actor) {
		s.logger.Warn("mark paid denied", "actor_id", actor.ID, "role", actor.Role)
		return MarkPaidResult{}, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return MarkPaidResult{}, err
	}

	count, err := s.repo.MarkPaid(dto.TrackIDs)
	if err != nil {
		s.logger.Error("failed to mark tracks paid", "error", err, "track_ids", dto.TrackIDs)
		return MarkPaidResult{}, internal.NewInternalError("failed to mark tracks paid", err)
	}

	s.logger.Info("tracks marked paid",
		"requested", len(dto.TrackIDs),
		"flipped", count,
		"actor_id", actor.ID)

	return MarkPaidResult{Count: count}, nil
}

// TracksInRange loads raw (unpriced) tracks for the aggregation engine.
// Callers are responsible for visibility checks.
func (s *Service) TracksInRange(userID int64, from, to time.Time) ([]*TimeTrack, error) {
	records, err := s.repo.List(ListFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, internal.NewInternalError("failed to load time tracks", err)
	}
	return FromDataModelSlice(records), nil
}
