package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_IsActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name    string
		booking Booking
		want    bool
	}{
		{
			name:    "one-off in the future",
			booking: Booking{Start: future, End: future.Add(time.Hour), Status: StatusConfirmed},
			want:    true,
		},
		{
			name:    "one-off ending exactly now",
			booking: Booking{Start: now.Add(-time.Hour), End: now, Status: StatusConfirmed},
			want:    false,
		},
		{
			name:    "one-off cutoff is ignored",
			booking: Booking{Start: past, End: past.Add(time.Hour), RecurrenceEnd: &future},
			want:    false,
		},
		{
			name:    "open-ended recurring started long ago",
			booking: Booking{Start: past, End: past.Add(time.Hour), IsRecurring: true},
			want:    true,
		},
		{
			name:    "recurring with future cutoff",
			booking: Booking{Start: past, End: past.Add(time.Hour), IsRecurring: true, RecurrenceEnd: &future},
			want:    true,
		},
		{
			name:    "recurring with past cutoff",
			booking: Booking{Start: past, End: past.Add(time.Hour), IsRecurring: true, RecurrenceEnd: &past},
			want:    false,
		},
		{
			name:    "cancelled booking",
			booking: Booking{Start: future, End: future.Add(time.Hour), Status: StatusCancelled},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.IsActiveAt(now))
		})
	}
}

func TestBooking_Cutoff(t *testing.T) {
	cutoff := time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)

	oneOff := Booking{RecurrenceEnd: &cutoff}
	assert.Nil(t, oneOff.Cutoff())

	series := Booking{IsRecurring: true, RecurrenceEnd: &cutoff}
	assert.Equal(t, &cutoff, series.Cutoff())
}

func TestBooking_CanBeCancelled(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	upcoming := Booking{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: StatusConfirmed}
	assert.True(t, upcoming.CanBeCancelled(now))

	finished := Booking{Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: StatusConfirmed}
	assert.False(t, finished.CanBeCancelled(now))

	series := Booking{Start: now.AddDate(0, -1, 0), End: now.AddDate(0, -1, 0).Add(time.Hour), IsRecurring: true, Status: StatusConfirmed}
	assert.True(t, series.CanBeCancelled(now))

	cancelled := upcoming
	cancelled.Status = StatusCancelled
	assert.False(t, cancelled.CanBeCancelled(now))
}
