package models

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	RoomID        int64   `json:"roomId"`
	RequesterID   int64   `json:"requesterId"`
	Start         string  `json:"start"` // RFC3339, первое вхождение для серии
	End           string  `json:"end"`
	Recurring     bool    `json:"recurring"`
	RecurrenceEnd *string `json:"recurrenceEnd,omitempty"` // nil - серия без даты окончания
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		RoomID:      b.RoomID,
		RequesterID: b.RequesterID,
		Start:       b.Start.UTC().Format(time.RFC3339),
		End:         b.End.UTC().Format(time.RFC3339),
		Recurring:   b.IsRecurring,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if cutoff := b.Cutoff(); cutoff != nil {
		s := cutoff.UTC().Format(time.RFC3339)
		resp.RecurrenceEnd = &s
	}

	return resp
}
