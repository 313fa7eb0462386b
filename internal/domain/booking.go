package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusArchived  BookingStatus = "archived"
)

// Booking represents a confirmed room reservation.
// Start/End describe the first occurrence when the booking recurs weekly.
type Booking struct {
	ID          int64
	RoomID      int64
	RequesterID int64
	Start       time.Time
	End         time.Time
	IsRecurring bool
	// RecurrenceEnd is the inclusive cutoff instant of a recurring booking; nil means open-ended.
	// Ignored when IsRecurring is false.
	RecurrenceEnd *time.Time
	Status        BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActiveAt reports whether the booking still blocks the room as of asOf.
// One-off bookings are active until they end; recurring ones until their cutoff passes.
func (b *Booking) IsActiveAt(asOf time.Time) bool {
	if b.Status != "" && b.Status != StatusConfirmed {
		return false
	}
	if !b.IsRecurring {
		return b.End.After(asOf)
	}
	return b.RecurrenceEnd == nil || b.RecurrenceEnd.After(asOf)
}

// Cutoff returns the recurrence cutoff, or nil for one-off and open-ended bookings
func (b *Booking) Cutoff() *time.Time {
	if !b.IsRecurring {
		return nil
	}
	return b.RecurrenceEnd
}

// ConflictResult describes the outcome of checking one requested window against one booking
type ConflictResult struct {
	Conflict bool
	// BookingID identifies the colliding booking (0 for collisions between requested windows)
	BookingID int64
	// CollisionDate is the civil date of the first colliding occurrence
	CollisionDate time.Time
	// Reason is a human-readable explanation, empty when there is no conflict
	Reason string
}

// NoConflict is the negative outcome
var NoConflict = ConflictResult{}

// CanBeCancelled reports whether the booking may still be cancelled as of asOf.
// Only bookings that still block the room can be cancelled.
func (b *Booking) CanBeCancelled(asOf time.Time) bool {
	return b.Status == StatusConfirmed && b.IsActiveAt(asOf)
}
