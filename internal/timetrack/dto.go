package timetrack

import (
	"time"

	"github.com/worktrack/payroll/internal"
)

type CreateTimeTrackDTO struct {
	Date    string `json:"date"`
	Time    int    `json:"time"`
	Comment string `json:"comment"`
}

func (dto CreateTimeTrackDTO) Validate() error {
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeInvalidDate)
	}
	if _, err := time.Parse(time.DateOnly, dto.Date); err != nil {
		return internal.NewValidationError("date must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
	}
	if dto.Time <= 0 {
		return internal.NewValidationError("time must be a positive number of minutes", internal.ErrCodeInvalidDuration)
	}
	if dto.Comment == "" {
		return internal.NewValidationError("comment is required", internal.ErrCodeInvalidComment)
	}
	return nil
}

func (dto CreateTimeTrackDTO) WorkDate() time.Time {
	t, _ := time.Parse(time.DateOnly, dto.Date)
	return t
}

type UpdateTimeTrackDTO struct {
	Time    int    `json:"time"`
	Comment string `json:"comment"`
}

func (dto UpdateTimeTrackDTO) Validate() error {
	if dto.Time <= 0 {
		return internal.NewValidationError("time must be a positive number of minutes", internal.ErrCodeInvalidDuration)
	}
	if dto.Comment == "" {
		return internal.NewValidationError("comment is required", internal.ErrCodeInvalidComment)
	}
	return nil
}

type MarkPaidDTO struct {
	TrackIDs []int64 `json:"track_ids"`
}

func (dto MarkPaidDTO) Validate() error {
	if len(dto.TrackIDs) == 0 {
		return internal.NewValidationError("track_ids must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// MarkPaidResult reports how many rows the batch actually flipped. Ids that
// were already paid or unknown are skipped, not errors.
type MarkPaidResult struct {
	Count int64 `json:"count"`
}

// ListFilter narrows a track listing to one day or an inclusive date range.
type ListFilter struct {
	UserID int64
	Date   *time.Time
	From   *time.Time
	To     *time.Time
}
