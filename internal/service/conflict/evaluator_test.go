package conflict

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

type fixture struct {
	t *testing.T
	n *timewindow.Normalizer
	e *Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	n, err := timewindow.NewNormalizerFromName("America/Sao_Paulo")
	require.NoError(t, err)
	return &fixture{t: t, n: n, e: NewEvaluator(n)}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) once(d time.Time, start, end types.TimeString) domain.NormalizedWindow {
	f.t.Helper()
	w, err := f.n.NormalizeWindow(domain.RequestedWindow{Date: d, StartTime: start, EndTime: end})
	require.NoError(f.t, err)
	return w
}

func (f *fixture) weekly(d time.Time, start, end types.TimeString, until *time.Time) domain.NormalizedWindow {
	f.t.Helper()
	w, err := f.n.NormalizeWindow(domain.RequestedWindow{
		Date: d, StartTime: start, EndTime: end, Recurring: true, RecurrenceEnd: until,
	})
	require.NoError(f.t, err)
	return w
}

func booking(id int64, w domain.NormalizedWindow) domain.Booking {
	return domain.Booking{
		ID:            id,
		RoomID:        7,
		Start:         w.Start,
		End:           w.End,
		IsRecurring:   w.Recurring,
		RecurrenceEnd: w.RecurrenceEnd,
		Status:        domain.StatusConfirmed,
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestEvaluate_WeeklyWednesdayScenario(t *testing.T) {
	f := newFixture(t)
	existing := booking(1, f.weekly(day(2025, 11, 5), "08:00", "12:00", nil))

	wed := f.e.Evaluate(f.once(day(2025, 11, 12), "09:00", "10:00"), existing)
	require.True(t, wed.Conflict)
	assert.Equal(t, int64(1), wed.BookingID)
	assert.Equal(t, day(2025, 11, 12), wed.CollisionDate)
	assert.Contains(t, wed.Reason, "Wednesday 2025-11-12 08:00-12:00")
	assert.Contains(t, wed.Reason, "weekly")

	thu := f.e.Evaluate(f.once(day(2025, 11, 13), "09:00", "10:00"), existing)
	assert.False(t, thu.Conflict)
	assert.Empty(t, thu.Reason)
}

func TestEvaluate_MondayScenario(t *testing.T) {
	f := newFixture(t)
	existing := booking(2, f.once(day(2025, 1, 6), "10:00", "11:00"))
	until := day(2025, 1, 20)

	touching := f.e.Evaluate(f.weekly(day(2025, 1, 6), "08:00", "10:00", &until), existing)
	assert.False(t, touching.Conflict, "series ending at 10:00 only touches the booking")

	overlapping := f.e.Evaluate(f.weekly(day(2025, 1, 6), "09:00", "11:00", &until), existing)
	require.True(t, overlapping.Conflict)
	assert.Equal(t, day(2025, 1, 6), overlapping.CollisionDate)

	later := f.e.Evaluate(f.weekly(day(2025, 1, 13), "09:00", "11:00", &until), existing)
	assert.False(t, later.Conflict, "series starting after the one-off date")
}

func TestEvaluate_OneOffVsOneOff(t *testing.T) {
	f := newFixture(t)
	existing := booking(3, f.once(day(2025, 3, 10), "10:00", "11:00"))

	tests := []struct {
		name       string
		start, end types.TimeString
		d          time.Time
		want       bool
	}{
		{name: "ends exactly at start", start: "09:00", end: "10:00", d: day(2025, 3, 10), want: false},
		{name: "starts exactly at end", start: "11:00", end: "12:00", d: day(2025, 3, 10), want: false},
		{name: "overlaps by a minute", start: "10:59", end: "12:00", d: day(2025, 3, 10), want: true},
		{name: "contains", start: "09:00", end: "12:00", d: day(2025, 3, 10), want: true},
		{name: "inside", start: "10:15", end: "10:45", d: day(2025, 3, 10), want: true},
		{name: "same time other day", start: "10:00", end: "11:00", d: day(2025, 3, 17), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.e.Evaluate(f.once(tt.d, tt.start, tt.end), existing)
			assert.Equal(t, tt.want, res.Conflict)
		})
	}
}

func TestEvaluate_OneOffVsSeriesRange(t *testing.T) {
	f := newFixture(t)
	until := day(2025, 1, 20)
	existing := booking(4, f.weekly(day(2025, 1, 6), "08:00", "10:00", &until))

	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{name: "before first occurrence", d: day(2024, 12, 30), want: false},
		{name: "first occurrence", d: day(2025, 1, 6), want: true},
		{name: "middle", d: day(2025, 1, 13), want: true},
		{name: "cutoff day is inclusive", d: day(2025, 1, 20), want: true},
		{name: "after cutoff", d: day(2025, 1, 27), want: false},
		{name: "other weekday inside range", d: day(2025, 1, 14), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.e.Evaluate(f.once(tt.d, "09:00", "09:30"), existing)
			assert.Equal(t, tt.want, res.Conflict)
		})
	}
}

func TestEvaluate_SeriesVsOneOff(t *testing.T) {
	f := newFixture(t)
	existing := booking(5, f.once(day(2025, 2, 12), "14:00", "15:00"))

	open := f.e.Evaluate(f.weekly(day(2025, 1, 1), "14:30", "16:00", nil), existing)
	require.True(t, open.Conflict)
	assert.Equal(t, day(2025, 2, 12), open.CollisionDate)

	ended := f.e.Evaluate(f.weekly(day(2025, 1, 1), "14:30", "16:00", ptr(day(2025, 2, 5))), existing)
	assert.False(t, ended.Conflict)

	otherTime := f.e.Evaluate(f.weekly(day(2025, 1, 1), "15:00", "16:00", nil), existing)
	assert.False(t, otherTime.Conflict)
}

func TestEvaluate_SeriesVsSeries(t *testing.T) {
	f := newFixture(t)
	existing := booking(6, f.weekly(day(2025, 1, 7), "10:00", "12:00", ptr(day(2025, 1, 21))))

	tests := []struct {
		name     string
		req      domain.NormalizedWindow
		want     bool
		wantDate time.Time
	}{
		{
			name:     "overlapping ranges",
			req:      f.weekly(day(2025, 1, 14), "11:00", "13:00", nil),
			want:     true,
			wantDate: day(2025, 1, 14),
		},
		{
			name:     "request started earlier",
			req:      f.weekly(day(2024, 12, 3), "09:00", "10:30", nil),
			want:     true,
			wantDate: day(2025, 1, 7),
		},
		{
			name: "request starts after cutoff",
			req:  f.weekly(day(2025, 1, 28), "10:00", "12:00", nil),
			want: false,
		},
		{
			name: "request ends before first occurrence",
			req:  f.weekly(day(2024, 12, 3), "10:00", "12:00", ptr(day(2024, 12, 31))),
			want: false,
		},
		{
			name: "touching times",
			req:  f.weekly(day(2025, 1, 7), "12:00", "13:00", nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.e.Evaluate(tt.req, existing)
			require.Equal(t, tt.want, res.Conflict)
			if tt.want {
				assert.Equal(t, tt.wantDate, res.CollisionDate)
				assert.Contains(t, res.Reason, "until 2025-01-21")
			}
		})
	}
}

func TestEvaluate_StoredCutoffKeepsItsDay(t *testing.T) {
	f := newFixture(t)
	series := f.weekly(day(2025, 1, 6), "09:00", "10:00", ptr(day(2025, 1, 19)))

	tests := []struct {
		name   string
		cutoff time.Time
	}{
		{name: "microsecond round trip", cutoff: series.RecurrenceEnd.Round(time.Microsecond)},
		{name: "rounded up to next midnight", cutoff: time.Date(2025, 1, 20, 3, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := booking(1, series)
			stored.RecurrenceEnd = ptr(tt.cutoff)

			monday := f.e.Evaluate(f.once(day(2025, 1, 20), "09:00", "10:00"), stored)
			assert.False(t, monday.Conflict)

			nextSeries := f.e.Evaluate(f.weekly(day(2025, 1, 20), "09:00", "10:00", nil), stored)
			assert.False(t, nextSeries.Conflict)

			last := f.e.Evaluate(f.once(day(2025, 1, 13), "09:30", "10:30"), stored)
			require.True(t, last.Conflict)
			assert.Contains(t, last.Reason, "until 2025-01-19")
		})
	}
}

func TestEvaluate_SeriesOnDifferentWeekdaysNeverConflict(t *testing.T) {
	f := newFixture(t)
	monday := day(2025, 1, 6)

	for offset := 1; offset < 7; offset++ {
		existing := booking(int64(offset), f.weekly(monday.AddDate(0, 0, offset), "00:00", "23:59", nil))
		req := f.weekly(monday, "00:00", "23:59", nil)

		assert.False(t, f.e.Evaluate(req, existing).Conflict, "weekday offset %d", offset)
	}
}

func TestEvaluate_OneOffSymmetry(t *testing.T) {
	f := newFixture(t)
	times := []types.TimeString{"08:00", "09:00", "09:30", "10:00", "11:00"}
	days := []time.Time{day(2025, 5, 5), day(2025, 5, 6)}

	var windows []domain.NormalizedWindow
	for _, d := range days {
		for i := 0; i < len(times); i++ {
			for j := i + 1; j < len(times); j++ {
				windows = append(windows, f.once(d, times[i], times[j]))
			}
		}
	}

	for i, a := range windows {
		for j, b := range windows {
			ab := f.e.Evaluate(a, booking(int64(j), b)).Conflict
			ba := f.e.Evaluate(b, booking(int64(i), a)).Conflict
			assert.Equal(t, ab, ba, fmt.Sprintf("windows %d and %d", i, j))
		}
	}
}

func TestEvaluate_IgnoresInactiveStatus(t *testing.T) {
	f := newFixture(t)
	existing := booking(8, f.once(day(2025, 3, 10), "10:00", "11:00"))
	existing.Status = domain.StatusCancelled

	assert.False(t, f.e.Evaluate(f.once(day(2025, 3, 10), "10:00", "11:00"), existing).Conflict)
}

func TestFirstConflictAndEvaluateAll(t *testing.T) {
	f := newFixture(t)
	bookings := []domain.Booking{
		booking(10, f.once(day(2025, 3, 10), "10:00", "11:00")),
		booking(11, f.weekly(day(2025, 3, 4), "10:00", "11:00", nil)),
	}
	windows := []domain.NormalizedWindow{
		f.once(day(2025, 3, 12), "10:00", "11:00"),
		f.once(day(2025, 3, 11), "10:30", "11:30"),
		f.once(day(2025, 3, 10), "10:30", "11:30"),
	}

	idx, res := f.e.FirstConflict(windows, bookings)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int64(11), res.BookingID)

	all := f.e.EvaluateAll(windows, bookings)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].WindowIndex)
	assert.Equal(t, -1, all[0].OtherWindow)
	assert.Equal(t, 2, all[1].WindowIndex)
	assert.Equal(t, int64(10), all[1].Result.BookingID)

	idx, res = f.e.FirstConflict(windows[:1], bookings)
	assert.Equal(t, -1, idx)
	assert.False(t, res.Conflict)
}

func TestEvaluateWindows(t *testing.T) {
	f := newFixture(t)
	windows := []domain.NormalizedWindow{
		f.weekly(day(2025, 3, 3), "09:00", "10:00", nil),
		f.once(day(2025, 3, 4), "09:00", "10:00"),
		f.once(day(2025, 3, 17), "09:30", "10:30"),
	}

	got := f.e.EvaluateWindows(windows)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].WindowIndex)
	assert.Equal(t, 0, got[0].OtherWindow)
	assert.Equal(t, day(2025, 3, 17), got[0].Result.CollisionDate)
	assert.Contains(t, got[0].Result.Reason, "requested window 0")

	assert.Empty(t, f.e.EvaluateWindows(windows[:2]))
}
