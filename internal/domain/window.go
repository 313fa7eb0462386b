package domain

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// RequestedWindow is a time window as the caller expresses it: civil date plus local wall-clock times
type RequestedWindow struct {
	Date      time.Time // civil date, only year/month/day are meaningful
	StartTime types.TimeString
	EndTime   types.TimeString
	Recurring bool
	// RecurrenceEnd is the inclusive last civil date of a weekly series; nil means open-ended
	RecurrenceEnd *time.Time
}

// NormalizedWindow is a RequestedWindow converted into absolute instants in the system timezone
type NormalizedWindow struct {
	Start time.Time // UTC
	End   time.Time // UTC

	Recurring bool
	// RecurrenceEnd is the last instant of the cutoff civil day; nil means open-ended
	RecurrenceEnd *time.Time

	// Civil projections in the system timezone
	Date        time.Time // midnight UTC of the civil date, used as a date key
	Weekday     time.Weekday
	StartMinute int // minutes since local midnight
	EndMinute   int // minutes since local midnight, may exceed 24*60 when the window crosses midnight
}

// Duration returns the length of one occurrence
func (w NormalizedWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
