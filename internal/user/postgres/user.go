package postgres

import (
	"gorm.io/gorm"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"
	trackDatamodel "github.com/worktrack/payroll/internal/core/datamodel/timetrack"
	userDatamodel "github.com/worktrack/payroll/internal/core/datamodel/user"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/user"
)

// UserRepository implements user.RepositoryAPI using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) GetByLogin(login string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where("login = ?", login).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) GetAll() ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

// Delete removes the account and its dependent rows in one transaction.
// The schema also cascades on the foreign keys; doing it here as well keeps
// the sqlite test databases consistent with postgres.
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&trackDatamodel.TimeTrack{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&rateDatamodel.Rate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&userDatamodel.User{}, id).Error
	})
}

func (r *UserRepository) CountTracks(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&trackDatamodel.TimeTrack{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
