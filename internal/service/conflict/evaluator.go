// Package conflict decides whether a requested window collides with an existing booking.
//
// Recurrence is kept compact as (first occurrence, weekday, optional cutoff) and never
// expanded into concrete dates, so open-ended series cost the same as one-off bookings.
// All functions are pure and safe for concurrent use.
package conflict

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// Evaluator checks requested windows against stored bookings in the system timezone
type Evaluator struct {
	normalizer *timewindow.Normalizer
}

// NewEvaluator creates an evaluator that projects instants through normalizer's timezone
func NewEvaluator(normalizer *timewindow.Normalizer) *Evaluator {
	return &Evaluator{normalizer: normalizer}
}

// WindowConflict is a collision of the requested window at WindowIndex.
// OtherWindow is the index of another requested window, or -1 when the collision is with a stored booking.
type WindowConflict struct {
	WindowIndex int
	OtherWindow int
	Result      domain.ConflictResult
}

// span is the compact recurrence view shared by requested windows and bookings
type span struct {
	start, end  time.Time
	recurring   bool
	firstDate   time.Time  // civil date key
	lastDate    *time.Time // civil date key of the cutoff, nil = open-ended
	weekday     time.Weekday
	startMinute int
	endMinute   int
}

func (s span) covers(day time.Time) bool {
	if day.Before(s.firstDate) {
		return false
	}
	return s.lastDate == nil || !day.After(*s.lastDate)
}

// Evaluate checks one normalized requested window against one existing booking
func (e *Evaluator) Evaluate(requested domain.NormalizedWindow, existing domain.Booking) domain.ConflictResult {
	if existing.Status != "" && existing.Status != domain.StatusConfirmed {
		return domain.NoConflict
	}

	day, ok := collide(e.fromWindow(requested), e.fromBooking(existing))
	if !ok {
		return domain.NoConflict
	}

	return domain.ConflictResult{
		Conflict:      true,
		BookingID:     existing.ID,
		CollisionDate: day,
		Reason:        e.explainBooking(existing, day),
	}
}

// FirstConflict returns the first collision in window order, then booking order
func (e *Evaluator) FirstConflict(windows []domain.NormalizedWindow, bookings []domain.Booking) (int, domain.ConflictResult) {
	for i, w := range windows {
		for _, b := range bookings {
			if res := e.Evaluate(w, b); res.Conflict {
				return i, res
			}
		}
	}
	return -1, domain.NoConflict
}

// EvaluateAll returns every collision between windows and bookings
func (e *Evaluator) EvaluateAll(windows []domain.NormalizedWindow, bookings []domain.Booking) []WindowConflict {
	var out []WindowConflict
	for i, w := range windows {
		for _, b := range bookings {
			if res := e.Evaluate(w, b); res.Conflict {
				out = append(out, WindowConflict{WindowIndex: i, OtherWindow: -1, Result: res})
			}
		}
	}
	return out
}

// EvaluateWindows checks requested windows against each other.
// Each colliding pair is reported once, on the later window.
func (e *Evaluator) EvaluateWindows(windows []domain.NormalizedWindow) []WindowConflict {
	spans := make([]span, len(windows))
	for i, w := range windows {
		spans[i] = e.fromWindow(w)
	}

	var out []WindowConflict
	for j := 1; j < len(spans); j++ {
		for i := 0; i < j; i++ {
			day, ok := collide(spans[j], spans[i])
			if !ok {
				continue
			}
			out = append(out, WindowConflict{
				WindowIndex: j,
				OtherWindow: i,
				Result: domain.ConflictResult{
					Conflict:      true,
					CollisionDate: day,
					Reason:        e.explainWindow(i, windows[i], day),
				},
			})
		}
	}
	return out
}

func (e *Evaluator) fromWindow(w domain.NormalizedWindow) span {
	s := span{
		start:       w.Start,
		end:         w.End,
		recurring:   w.Recurring,
		firstDate:   w.Date,
		weekday:     w.Weekday,
		startMinute: w.StartMinute,
		endMinute:   w.EndMinute,
	}
	if w.Recurring && w.RecurrenceEnd != nil {
		last := e.normalizer.CutoffDate(*w.RecurrenceEnd)
		s.lastDate = &last
	}
	return s
}

func (e *Evaluator) fromBooking(b domain.Booking) span {
	p := e.normalizer.Project(b.Start, b.End)
	s := span{
		start:       b.Start,
		end:         b.End,
		recurring:   b.IsRecurring,
		firstDate:   p.Date,
		weekday:     p.Weekday,
		startMinute: p.StartMinute,
		endMinute:   p.EndMinute,
	}
	if cutoff := b.Cutoff(); cutoff != nil {
		last := e.normalizer.CutoffDate(*cutoff)
		s.lastDate = &last
	}
	return s
}

// collide applies the four recurrence cases and returns the civil date of the first colliding occurrence
func collide(a, b span) (time.Time, bool) {
	switch {
	case !a.recurring && !b.recurring:
		if !overlaps(a.start, a.end, b.start, b.end) {
			return time.Time{}, false
		}
		// Первое пересечение начинается в более позднем из двух начал
		if a.start.After(b.start) {
			return a.firstDate, true
		}
		return b.firstDate, true

	case !a.recurring && b.recurring:
		return oneOffAgainstSeries(a, b)

	case a.recurring && !b.recurring:
		return oneOffAgainstSeries(b, a)

	default:
		if a.weekday != b.weekday || !minutesOverlap(a, b) {
			return time.Time{}, false
		}
		// Обе серии идут по одному дню недели, поэтому более поздняя первая дата общая для обеих
		from := a.firstDate
		if b.firstDate.After(from) {
			from = b.firstDate
		}
		if !a.covers(from) || !b.covers(from) {
			return time.Time{}, false
		}
		return from, true
	}
}

func oneOffAgainstSeries(single, series span) (time.Time, bool) {
	if single.weekday != series.weekday {
		return time.Time{}, false
	}
	if !series.covers(single.firstDate) {
		return time.Time{}, false
	}
	if !minutesOverlap(single, series) {
		return time.Time{}, false
	}
	return single.firstDate, true
}

// overlaps is the half-open interval test: touching intervals do not overlap
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func minutesOverlap(a, b span) bool {
	return a.startMinute < b.endMinute && b.startMinute < a.endMinute
}
