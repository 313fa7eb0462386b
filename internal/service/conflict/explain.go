package conflict

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

func (e *Evaluator) explainBooking(b domain.Booking, day time.Time) string {
	p := e.normalizer.Project(b.Start, b.End)

	var sb strings.Builder
	fmt.Fprintf(&sb, "room %d is booked on %s %s %s-%s",
		b.RoomID, day.Weekday(), day.Format(domain.DateFormat),
		clock(p.StartMinute), clock(p.EndMinute))

	if b.IsRecurring {
		sb.WriteString(" (weekly")
		if cutoff := b.Cutoff(); cutoff != nil {
			fmt.Fprintf(&sb, " until %s", e.normalizer.CutoffDate(*cutoff).Format(domain.DateFormat))
		}
		sb.WriteString(")")
	}
	if b.ID != 0 {
		fmt.Fprintf(&sb, " by booking %d", b.ID)
	}

	return sb.String()
}

func (e *Evaluator) explainWindow(index int, w domain.NormalizedWindow, day time.Time) string {
	return fmt.Sprintf("overlaps requested window %d on %s %s %s-%s",
		index, day.Weekday(), day.Format(domain.DateFormat),
		clock(w.StartMinute), clock(w.EndMinute))
}

// clock formats minutes since midnight as HH:MM, wrapping past midnight
func clock(minutes int) string {
	ts, _ := types.NewTimeStringFromMinutes(minutes % (24 * 60))
	return ts.String()
}
