// Package timewindow converts civil dates and wall-clock times into absolute
// instants in the single timezone used by the whole service.
//
// Daylight saving policy: a wall time that occurs twice resolves to the earlier
// instant, a wall time skipped by a spring-forward transition is shifted forward
// by the length of the gap (02:30 becomes 03:30).
package timewindow

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

const (
	minutesPerDay = 24 * 60

	// offsetProbe is how far from a wall time we look to find the two candidate UTC offsets
	offsetProbe = 24 * time.Hour

	// CutoffPrecision is the resolution of a stored recurrence cutoff.
	// Postgres timestamptz keeps microseconds and rounds anything finer.
	CutoffPrecision = time.Microsecond
)

// Normalizer converts local wall-clock windows into UTC instants
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer bound to loc
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{loc: loc}
}

// NewNormalizerFromName loads an IANA timezone and creates a normalizer for it
func NewNormalizerFromName(name string) (*Normalizer, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTimezone, name, err)
	}
	return NewNormalizer(loc), nil
}

// Location returns the system timezone
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize converts a civil date and local start/end times into a UTC instant pair
func (n *Normalizer) Normalize(date time.Time, startTime, endTime types.TimeString) (time.Time, time.Time, error) {
	sh, sm, err := startTime.Clock()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", ErrInvalidTime, startTime)
	}
	eh, em, err := endTime.Clock()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", ErrInvalidTime, endTime)
	}

	y, mo, d := date.Date()
	start := n.LocalInstant(y, mo, d, sh, sm)
	end := n.LocalInstant(y, mo, d, eh, em)

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s %s-%s",
			ErrInvalidTimeRange, date.Format(domain.DateFormat), startTime, endTime)
	}

	return start, end, nil
}

// NormalizeStrings parses "YYYY-MM-DD" and "HH:MM" values and normalizes them
func (n *Normalizer) NormalizeStrings(date, startTime, endTime string) (time.Time, time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return n.Normalize(d, types.TimeString(startTime), types.TimeString(endTime))
}

// NormalizeRecurrenceEnd returns the last instant of the given civil day in the system timezone,
// at CutoffPrecision so that it survives storage unchanged.
// The cutoff is inclusive through the whole day.
func (n *Normalizer) NormalizeRecurrenceEnd(date time.Time) time.Time {
	next := CivilDate(date).AddDate(0, 0, 1)
	y, mo, d := next.Date()
	return n.LocalInstant(y, mo, d, 0, 0).Add(-CutoffPrecision)
}

// NormalizeWindow converts a requested window and fills in its civil projection
func (n *Normalizer) NormalizeWindow(w domain.RequestedWindow) (domain.NormalizedWindow, error) {
	start, end, err := n.Normalize(w.Date, w.StartTime, w.EndTime)
	if err != nil {
		return domain.NormalizedWindow{}, err
	}

	out := domain.NormalizedWindow{
		Start:     start,
		End:       end,
		Recurring: w.Recurring,
	}
	p := n.Project(start, end)
	out.Date = p.Date
	out.Weekday = p.Weekday
	out.StartMinute = p.StartMinute
	out.EndMinute = p.EndMinute

	if w.Recurring && w.RecurrenceEnd != nil {
		if CivilDate(*w.RecurrenceEnd).Before(out.Date) {
			return domain.NormalizedWindow{}, fmt.Errorf("%w: recurrence end %s is before first occurrence %s",
				ErrInvalidTimeRange, w.RecurrenceEnd.Format(domain.DateFormat), out.Date.Format(domain.DateFormat))
		}
		cutoff := n.NormalizeRecurrenceEnd(*w.RecurrenceEnd)
		out.RecurrenceEnd = &cutoff
	}

	return out, nil
}

// Projection is the civil view of an instant interval in the system timezone
type Projection struct {
	Date        time.Time // civil date key of the start (midnight UTC)
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int // grows past 24*60 when the interval ends on a later civil day
}

// Project returns the civil date, weekday and minute-of-day range of [start, end)
func (n *Normalizer) Project(start, end time.Time) Projection {
	ls := start.In(n.loc)
	le := end.In(n.loc)

	startDate := CivilDate(ls)
	endDate := CivilDate(le)
	days := int(endDate.Sub(startDate).Hours() / 24)

	return Projection{
		Date:        startDate,
		Weekday:     ls.Weekday(),
		StartMinute: ls.Hour()*60 + ls.Minute(),
		EndMinute:   days*minutesPerDay + le.Hour()*60 + le.Minute(),
	}
}

// CivilDateOf returns the civil date of an instant in the system timezone
func (n *Normalizer) CivilDateOf(t time.Time) time.Time {
	return CivilDate(t.In(n.loc))
}

// CutoffDate returns the last civil day covered by a recurrence cutoff.
// A cutoff that was rounded up to the following midnight still maps to the day before it.
func (n *Normalizer) CutoffDate(cutoff time.Time) time.Time {
	return n.CivilDateOf(cutoff.Add(-CutoffPrecision))
}

// LocalInstant resolves a wall-clock time in the system timezone to a UTC instant,
// applying the daylight saving policy of this package explicitly instead of relying
// on time.Date, whose choice is unspecified for ambiguous or missing wall times.
func (n *Normalizer) LocalInstant(year int, month time.Month, day, hour, minute int) time.Time {
	naive := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	// time.Date may have normalized overflowing fields; compare against the normalized values
	year, month, day = naive.Date()
	hour, minute = naive.Hour(), naive.Minute()

	_, before := naive.Add(-offsetProbe).In(n.loc).Zone()
	_, after := naive.Add(offsetProbe).In(n.loc).Zone()

	var (
		best  time.Time
		found bool
	)
	for _, offset := range []int{before, after} {
		candidate := naive.Add(-time.Duration(offset) * time.Second)
		if !sameWall(candidate.In(n.loc), year, month, day, hour, minute) {
			continue
		}
		if !found || candidate.Before(best) {
			best = candidate
			found = true
		}
	}
	if found {
		return best.UTC()
	}

	// Несуществующее время: используем смещение до перехода, что сдвигает время вперёд на длину разрыва
	return naive.Add(-time.Duration(before) * time.Second).UTC()
}

func sameWall(t time.Time, year int, month time.Month, day, hour, minute int) bool {
	y, mo, d := t.Date()
	return y == year && mo == month && d == day && t.Hour() == hour && t.Minute() == minute
}

// CivilDate truncates t to its calendar date (as seen in t's location) and returns it as midnight UTC
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" civil date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
