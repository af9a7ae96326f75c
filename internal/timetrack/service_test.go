package timetrack_test

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	trackDatamodel "github.com/worktrack/payroll/internal/core/datamodel/timetrack"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
	"github.com/worktrack/payroll/internal/timetrack"
)

type mockTrackRepository struct {
	tracks map[int64]*trackDatamodel.TimeTrack
	nextID int64
}

func newMockTrackRepository() *mockTrackRepository {
	return &mockTrackRepository{
		tracks: make(map[int64]*trackDatamodel.TimeTrack),
		nextID: 1,
	}
}

func (m *mockTrackRepository) GetByID(id int64) (*trackDatamodel.TimeTrack, error) {
	t, ok := m.tracks[id]
	if !ok {
		return nil, internal.ErrTimeTrackNotFound
	}
	return t, nil
}

func (m *mockTrackRepository) List(filter timetrack.ListFilter) ([]*trackDatamodel.TimeTrack, error) {
	var result []*trackDatamodel.TimeTrack
	for _, t := range m.tracks {
		if t.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && t.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.Date.After(*filter.To) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTrackRepository) Create(t *trackDatamodel.TimeTrack) error {
	t.ID = m.nextID
	m.nextID++
	m.tracks[t.ID] = t
	return nil
}

func (m *mockTrackRepository) Update(t *trackDatamodel.TimeTrack) error {
	m.tracks[t.ID] = t
	return nil
}

func (m *mockTrackRepository) Delete(id int64) error {
	delete(m.tracks, id)
	return nil
}

func (m *mockTrackRepository) MarkPaid(ids []int64) (int64, error) {
	var count int64
	for _, id := range ids {
		if t, ok := m.tracks[id]; ok && !t.WasPaid {
			t.WasPaid = true
			count++
		}
	}
	return count, nil
}

type mockLedgerProvider struct {
	ledgers map[int64][]*rate.Rate
}

func (m *mockLedgerProvider) LedgerForUser(userID int64) ([]*rate.Rate, error) {
	return m.ledgers[userID], nil
}

var _ = Describe("TimeTrack Service", func() {
	var (
		repo    *mockTrackRepository
		ledgers *mockLedgerProvider
		service *timetrack.Service

		admin     = auth.Actor{ID: 1, Role: auth.RoleAdmin}
		moderator = auth.Actor{ID: 2, Role: auth.RoleModerator}
		worker    = auth.Actor{ID: 3, Role: auth.RoleUser}
		other     = auth.Actor{ID: 4, Role: auth.RoleUser}
	)

	BeforeEach(func() {
		repo = newMockTrackRepository()
		ledgers = &mockLedgerProvider{ledgers: map[int64][]*rate.Rate{
			worker.ID: {ledgerEntry(1, "1000", "2025-01-01")},
		}}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = timetrack.NewService(repo, ledgers, logger)
	})

	createTrack := func(actor auth.Actor, date string, minutes int) *timetrack.TimeTrack {
		track, err := service.CreateTrack(actor, timetrack.CreateTimeTrackDTO{
			Date:    date,
			Time:    minutes,
			Comment: "work",
		})
		Expect(err).NotTo(HaveOccurred())
		return track
	}

	Describe("CreateTrack", func() {
		It("always records the entry as unpaid and owned by the actor", func() {
			track := createTrack(worker, "2025-02-10", 120)

			Expect(track.WasPaid).To(BeFalse())
			Expect(track.UserID).To(Equal(worker.ID))
		})

		It("rejects a non-positive duration", func() {
			_, err := service.CreateTrack(worker, timetrack.CreateTimeTrackDTO{
				Date:    "2025-02-10",
				Time:    0,
				Comment: "work",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDuration))
		})

		It("rejects an empty comment", func() {
			_, err := service.CreateTrack(worker, timetrack.CreateTimeTrackDTO{
				Date: "2025-02-10",
				Time: 60,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidComment))
		})
	})

	Describe("ListTracks", func() {
		It("defaults to the actor's own records", func() {
			createTrack(worker, "2025-02-10", 60)
			createTrack(other, "2025-02-10", 30)

			tracks, err := service.ListTracks(worker, timetrack.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(tracks).To(HaveLen(1))
			Expect(tracks[0].UserID).To(Equal(worker.ID))
		})

		It("refuses a plain user reading another user's records", func() {
			_, err := service.ListTracks(other, timetrack.ListFilter{UserID: worker.ID})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("allows staff to read any user's records", func() {
			createTrack(worker, "2025-02-10", 60)

			tracks, err := service.ListTracks(moderator, timetrack.ListFilter{UserID: worker.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(tracks).To(HaveLen(1))
		})

		It("attaches the rate effective on each work date", func() {
			createTrack(worker, "2025-02-10", 90)

			tracks, err := service.ListTracks(worker, timetrack.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(tracks[0].Earnings.Equal(decimal.RequireFromString("1500"))).To(BeTrue())
		})
	})

	Describe("UpdateTrack", func() {
		It("reports not found for another user's entry", func() {
			track := createTrack(worker, "2025-02-10", 60)

			_, err := service.UpdateTrack(other, track.ID, timetrack.UpdateTimeTrackDTO{Time: 30, Comment: "x"})
			Expect(err).To(Equal(internal.ErrTimeTrackNotFound))
		})

		It("refuses to edit a paid entry, even for its owner", func() {
			track := createTrack(worker, "2025-02-10", 60)

			_, err := service.MarkPaid(admin, timetrack.MarkPaidDTO{TrackIDs: []int64{track.ID}})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateTrack(worker, track.ID, timetrack.UpdateTimeTrackDTO{Time: 30, Comment: "x"})
			Expect(err).To(Equal(internal.ErrTrackAlreadyPaid))
		})

		It("edits time and comment of an unpaid entry", func() {
			track := createTrack(worker, "2025-02-10", 60)

			updated, err := service.UpdateTrack(worker, track.ID, timetrack.UpdateTimeTrackDTO{Time: 45, Comment: "adjusted"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Time).To(Equal(45))
			Expect(updated.Comment).To(Equal("adjusted"))
		})
	})

	Describe("DeleteTrack", func() {
		It("refuses to delete a paid entry", func() {
			track := createTrack(worker, "2025-02-10", 60)

			_, err := service.MarkPaid(admin, timetrack.MarkPaidDTO{TrackIDs: []int64{track.ID}})
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteTrack(worker, track.ID)
			Expect(err).To(Equal(internal.ErrTrackAlreadyPaid))
		})

		It("deletes an unpaid entry owned by the actor", func() {
			track := createTrack(worker, "2025-02-10", 60)

			Expect(service.DeleteTrack(worker, track.ID)).To(Succeed())

			_, err := service.UpdateTrack(worker, track.ID, timetrack.UpdateTimeTrackDTO{Time: 30, Comment: "x"})
			Expect(err).To(Equal(internal.ErrTimeTrackNotFound))
		})
	})

	Describe("MarkPaid", func() {
		It("is admin only", func() {
			track := createTrack(worker, "2025-02-10", 60)

			_, err := service.MarkPaid(moderator, timetrack.MarkPaidDTO{TrackIDs: []int64{track.ID}})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("counts only entries actually flipped", func() {
			first := createTrack(worker, "2025-02-10", 60)
			second := createTrack(worker, "2025-02-11", 60)

			result, err := service.MarkPaid(admin, timetrack.MarkPaidDTO{TrackIDs: []int64{first.ID, second.ID, 999}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(Equal(int64(2)))
		})

		It("reports zero on a repeated batch", func() {
			track := createTrack(worker, "2025-02-10", 60)

			_, err := service.MarkPaid(admin, timetrack.MarkPaidDTO{TrackIDs: []int64{track.ID}})
			Expect(err).NotTo(HaveOccurred())

			result, err := service.MarkPaid(admin, timetrack.MarkPaidDTO{TrackIDs: []int64{track.ID}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(BeZero())
		})

		It("rejects an empty batch", func() {
			_, err := service.MarkPaid(admin, timetrack.MarkPaidDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
