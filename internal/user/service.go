package user

import (
	"log/slog"

	"github.com/shopspring/decimal"

	userDatamodel "github.com/worktrack/payroll/internal/core/datamodel/user"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByLogin(login string) (*userDatamodel.User, error)
	GetAll() ([]*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	// Delete removes the account together with its rates and tracks.
	Delete(id int64) error
	CountTracks(userID int64) (int64, error)
}

// LedgerProvider supplies rate ledgers; satisfied by rate.Service.
type LedgerProvider interface {
	LedgerForUser(userID int64) ([]*rate.Rate, error)
}

type Service struct {
	repo       RepositoryAPI
	ledgers    LedgerProvider
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, ledgers LedgerProvider, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		ledgers:    ledgers,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// ListUsers returns the roster with each account's rate in effect today.
// Staff only.
func (s *Service) ListUsers(actor auth.Actor) ([]Profile, error) {
	if !auth.CanViewRoster(actor) {
		s.logger.Warn("roster access denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrForbidden
	}

	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	profiles := make([]Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, Profile{
			User:        *FromDataModel(row),
			CurrentRate: s.currentRate(row.ID),
		})
	}
	return profiles, nil
}

func (s *Service) CreateUser(actor auth.Actor, dto CreateUserDTO) (*User, error) {
	if !auth.CanManageUsers(actor) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByLogin(dto.Login); err == nil {
		return nil, internal.ErrDuplicateLogin
	} else if err != internal.ErrUserNotFound {
		return nil, internal.NewInternalError("failed to check login uniqueness", err)
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Login:        dto.Login,
		PasswordHash: hash,
		Name:         dto.Name,
		Position:     dto.Position,
		Role:         dto.Role,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create user", "error", err, "login", dto.Login)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", row.ID, "role", row.Role, "created_by", actor.ID)
	return FromDataModel(row), nil
}

// UpdateUser edits an account. Administrator accounts can only be edited
// by themselves; one admin never rewrites another.
func (s *Service) UpdateUser(actor auth.Actor, userID int64, dto UpdateUserDTO) (*User, error) {
	if !auth.CanManageUsers(actor) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if auth.Role(row.Role) == auth.RoleAdmin {
		if row.ID != actor.ID {
			return nil, internal.ErrAdminImmutable
		}
		// the admin role itself is permanent, even for the account owner
		if dto.Role != "" && auth.Role(dto.Role) != auth.RoleAdmin {
			return nil, internal.ErrAdminImmutable
		}
	}

	if dto.Login != "" && dto.Login != row.Login {
		if _, err := s.repo.GetByLogin(dto.Login); err == nil {
			return nil, internal.ErrDuplicateLogin
		} else if err != internal.ErrUserNotFound {
			return nil, internal.NewInternalError("failed to check login uniqueness", err)
		}
		row.Login = dto.Login
	}
	if dto.Name != "" {
		row.Name = dto.Name
	}
	if dto.Position != "" {
		row.Position = dto.Position
	}
	if dto.Role != "" {
		row.Role = dto.Role
	}
	if dto.Password != "" {
		hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = hash
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", row.ID, "updated_by", actor.ID)
	return FromDataModel(row), nil
}

// DeleteUser removes an account and everything it owns. Self-deletion and
// deleting administrators are both refused.
func (s *Service) DeleteUser(actor auth.Actor, userID int64) error {
	if !auth.CanManageUsers(actor) {
		return internal.ErrForbidden
	}
	if userID == actor.ID {
		return internal.ErrCannotDeleteSelf
	}

	row, err := s.repo.GetByID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}
	if auth.Role(row.Role) == auth.RoleAdmin {
		return internal.ErrAdminImmutable
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", actor.ID)
	return nil
}

// Me returns the calling account with its rate history and track count.
func (s *Service) Me(actor auth.Actor) (*AccountDetail, error) {
	row, err := s.repo.GetByID(actor.ID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	ledger, err := s.ledgers.LedgerForUser(actor.ID)
	if err != nil {
		s.logger.Error("failed to load rate ledger", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to load rates", err)
	}

	trackCount, err := s.repo.CountTracks(actor.ID)
	if err != nil {
		s.logger.Error("failed to count tracks", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to count tracks", err)
	}

	current := decimal.Zero
	if resolved, ok := rate.ResolveNow(ledger); ok {
		current = resolved
	}

	return &AccountDetail{
		User:        *FromDataModel(row),
		CurrentRate: current,
		Rates:       ledger,
		TrackCount:  trackCount,
	}, nil
}

// ChangePassword replaces the caller's credential after verifying the
// current one.
func (s *Service) ChangePassword(actor auth.Actor, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	row, err := s.repo.GetByID(actor.ID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if err := auth.VerifyPassword(row.PasswordHash, dto.CurrentPassword); err != nil {
		s.logger.Warn("password change rejected", "user_id", actor.ID)
		return internal.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	row.PasswordHash = hash
	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to change password", "error", err, "user_id", actor.ID)
		return internal.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", actor.ID)
	return nil
}

func (s *Service) currentRate(userID int64) decimal.Decimal {
	ledger, err := s.ledgers.LedgerForUser(userID)
	if err != nil {
		s.logger.Error("failed to load rate ledger", "error", err, "user_id", userID)
		return decimal.Zero
	}
	if resolved, ok := rate.ResolveNow(ledger); ok {
		return resolved
	}
	return decimal.Zero
}
