package postgres

import (
	"gorm.io/gorm"

	trackDatamodel "github.com/worktrack/payroll/internal/core/datamodel/timetrack"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/timetrack"
)

// TimeTrackRepository implements timetrack.RepositoryAPI using GORM.
type TimeTrackRepository struct {
	db *gorm.DB
}

func NewTimeTrackRepository(db *gorm.DB) timetrack.RepositoryAPI {
	return &TimeTrackRepository{db: db}
}

func (r *TimeTrackRepository) GetByID(id int64) (*trackDatamodel.TimeTrack, error) {
	var track trackDatamodel.TimeTrack
	err := r.db.Where("id = ?", id).First(&track).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrTimeTrackNotFound
		}
		return nil, err
	}
	return &track, nil
}

func (r *TimeTrackRepository) List(filter timetrack.ListFilter) ([]*trackDatamodel.TimeTrack, error) {
	query := r.db.Where("user_id = ?", filter.UserID)

	switch {
	case filter.Date != nil:
		query = query.Where("date >= ? AND date < ?", *filter.Date, filter.Date.AddDate(0, 0, 1))
	case filter.From != nil && filter.To != nil:
		// To is inclusive; the upper bound moves one day forward.
		query = query.Where("date >= ? AND date < ?", *filter.From, filter.To.AddDate(0, 0, 1))
	}

	var tracks []*trackDatamodel.TimeTrack
	err := query.Order("date DESC, id DESC").Find(&tracks).Error
	return tracks, err
}

func (r *TimeTrackRepository) Create(track *trackDatamodel.TimeTrack) error {
	return r.db.Create(track).Error
}

func (r *TimeTrackRepository) Update(track *trackDatamodel.TimeTrack) error {
	return r.db.Save(track).Error
}

func (r *TimeTrackRepository) Delete(id int64) error {
	return r.db.Delete(&trackDatamodel.TimeTrack{}, id).Error
}

// MarkPaid flips only rows that are still unpaid, so concurrent batches
// converge without double counting. RowsAffected is the number flipped.
func (r *TimeTrackRepository) MarkPaid(ids []int64) (int64, error) {
	result := r.db.Model(&trackDatamodel.TimeTrack{}).
		Where("id IN ? AND was_paid = ?", ids, false).
		Update("was_paid", true)
	return result.RowsAffected, result.Error
}
