package timewindow

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// DefaultMaxOccurrences caps expansion of open-ended series
const DefaultMaxOccurrences = 52

// Occurrence is one concrete instance of a window
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Occurrences lists up to limit occurrences of w whose end is after from.
// Weekly dates come from an RRULE anchored at the first occurrence; each wall time
// is then resolved with LocalInstant so the daylight saving policy stays the same
// as in Normalize.
func (n *Normalizer) Occurrences(w domain.NormalizedWindow, from time.Time, limit int) ([]Occurrence, error) {
	if limit <= 0 {
		limit = DefaultMaxOccurrences
	}

	if !w.Recurring {
		if !w.End.After(from) {
			return nil, nil
		}
		return []Occurrence{{Start: w.Start, End: w.End}}, nil
	}

	opt := rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: w.Start.In(n.loc),
	}
	if w.RecurrenceEnd != nil {
		opt.Until = w.RecurrenceEnd.In(n.loc)
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}

	// Первое вхождение, которое ещё не закончилось к моменту from
	first := rule.After(from.Add(-w.Duration()), false)
	if first.IsZero() {
		return nil, nil
	}

	opt.Dtstart = first
	opt.Count = limit
	rule, err = rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}

	dates := rule.All()
	out := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		out = append(out, n.occurrenceOn(d, w.StartMinute, w.EndMinute))
	}

	return out, nil
}

// occurrenceOn builds the occurrence of a minute-of-day range on the civil date of day
func (n *Normalizer) occurrenceOn(day time.Time, startMinute, endMinute int) Occurrence {
	y, mo, d := day.In(n.loc).Date()
	return Occurrence{
		Start: n.LocalInstant(y, mo, d, startMinute/60, startMinute%60),
		End:   n.LocalInstant(y, mo, d+endMinute/minutesPerDay, (endMinute%minutesPerDay)/60, endMinute%60),
	}
}
