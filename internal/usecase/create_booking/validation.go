package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if len(req.Windows) == 0 {
		return fmt.Errorf("%w: at least one window is required", ErrInvalidInput)
	}

	if len(req.Windows) > domain.MaxRequestedWindows {
		return fmt.Errorf("%w: too many windows (%d > %d)", ErrInvalidInput, len(req.Windows), domain.MaxRequestedWindows)
	}

	return nil
}

// validateTiming проверяет, что окна не начинаются в прошлом и укладываются в advanceBookingDays
func validateTiming(windows []domain.NormalizedWindow, now time.Time, advanceBookingDays int) error {
	for i, w := range windows {
		if w.Start.Before(now) {
			return fmt.Errorf("%w: window %d starts at %s", ErrWindowInPast, i, w.Start.Format(time.RFC3339))
		}

		// Если advanceBookingDays = 0, нет ограничений на дату
		if advanceBookingDays == 0 {
			continue
		}

		maxStart := now.AddDate(0, 0, advanceBookingDays)
		if w.Start.After(maxStart) {
			return fmt.Errorf("%w: window %d: can only book %d days in advance",
				ErrDateTooFarInFuture, i, advanceBookingDays)
		}
	}

	return nil
}

// toBooking собирает бронирование из нормализованного окна
func toBooking(requesterID, roomID int64, w domain.NormalizedWindow) *domain.Booking {
	b := &domain.Booking{
		RoomID:      roomID,
		RequesterID: requesterID,
		Start:       w.Start,
		End:         w.End,
		IsRecurring: w.Recurring,
		Status:      domain.StatusConfirmed,
	}
	if w.Recurring && w.RecurrenceEnd != nil {
		cutoff := *w.RecurrenceEnd
		b.RecurrenceEnd = &cutoff
	}
	return b
}
