package rate

import (
	"log/slog"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
)

type RepositoryAPI interface {
	GetByUserID(userID int64) ([]*rateDatamodel.Rate, error)
	GetByID(id int64) (*rateDatamodel.Rate, error)
	Create(rate *rateDatamodel.Rate) error
	Update(rate *rateDatamodel.Rate) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListRates returns the full rate history of a user, newest first. Rate
// management is admin-only, matching the policy enforced for writes.
func (s *Service) ListRates(actor auth.Actor, userID int64) ([]*Rate, error) {
	if !auth.CanSetRates(actor) {
		s.logger.Warn("list rates denied", "actor_id", actor.ID, "role", actor.Role, "user_id", userID)
		return nil, internal.ErrForbidden
	}

	records, err := s.repo.GetByUserID(userID)
	if err != nil {
		s.logger.Error("failed to list rates", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list rates", err)
	}

	return FromDataModelSlice(records), nil
}

// CreateRate appends a new ledger entry. A ValidFrom in the past is legal and
// intentionally reprices historical earnings.
func (s *Service) CreateRate(actor auth.Actor, userID int64, dto CreateRateDTO) (*Rate, error) {
	if !auth.CanSetRates(actor) {
		s.logger.Warn("create rate denied", "actor_id", actor.ID, "role", actor.Role, "user_id", userID)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := &rateDatamodel.Rate{
		UserID:    userID,
		Rate:      dto.Rate,
		ValidFrom: dto.ValidFromDate(),
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create rate", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create rate", err)
	}

	s.logger.Info("rate created",
		"rate_id", record.ID,
		"user_id", userID,
		"rate", dto.Rate.String(),
		"valid_from", dto.ValidFrom)

	return FromDataModel(record), nil
}

// UpdateRate edits an existing ledger entry in place. The entry must belong
// to the addressed user; a mismatch reads as NotFound so rate ids of other
// users do not leak.
func (s *Service) UpdateRate(actor auth.Actor, userID int64, dto UpdateRateDTO) (*Rate, error) {
	if !auth.CanSetRates(actor) {
		s.logger.Warn("update rate denied", "actor_id", actor.ID, "role", actor.Role, "user_id", userID)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(dto.RateID)
	if err != nil {
		return nil, internal.ErrRateNotFound
	}
	if record.UserID != userID {
		return nil, internal.ErrRateNotFound
	}

	record.Rate = dto.Rate
	record.ValidFrom = dto.ValidFromDate()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update rate", "error", err, "rate_id", dto.RateID)
		return nil, internal.NewInternalError("failed to update rate", err)
	}

	s.logger.Info("rate updated",
		"rate_id", record.ID,
		"user_id", userID,
		"rate", dto.Rate.String(),
		"valid_from", dto.ValidFrom)

	return FromDataModel(record), nil
}

// LedgerForUser loads a user's ledger for resolution by the pricing and
// aggregation layers. No policy gate: callers apply their own visibility
// rules before asking for earnings.
func (s *Service) LedgerForUser(userID int64) ([]*Rate, error) {
	records, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load rate ledger", err)
	}
	return FromDataModelSlice(records), nil
}
