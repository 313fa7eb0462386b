package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Windows []handlers.WindowRequest `json:"windows"`
}

// OccurrenceResponse одно вхождение бронирования
type OccurrenceResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64                `json:"id"`
	RoomID        int64                `json:"roomId"`
	RequesterID   int64                `json:"requesterId"`
	Start         string               `json:"start"`
	End           string               `json:"end"`
	Recurring     bool                 `json:"recurring"`
	RecurrenceEnd *string              `json:"recurrenceEnd,omitempty"`
	Status        string               `json:"status"`
	Occurrences   []OccurrenceResponse `json:"occurrences"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ConflictErrorResponse тело ответа 409 с описанием пересечения
type ConflictErrorResponse struct {
	Error         string `json:"error"`
	WindowIndex   int    `json:"windowIndex"`
	BookingID     int64  `json:"bookingId,omitempty"`
	CollisionDate string `json:"collisionDate,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID, roomID int64) *createBooking.Request {
	return &createBooking.Request{
		RequesterID: requesterID,
		RoomID:      roomID,
		Windows:     handlers.ToInputs(r.Windows),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	bookings := make([]BookingResponse, 0, len(resp.Bookings))
	for _, created := range resp.Bookings {
		b := created.Booking

		occurrences := make([]OccurrenceResponse, 0, len(created.Occurrences))
		for _, o := range created.Occurrences {
			occurrences = append(occurrences, OccurrenceResponse{
				Start: o.Start.Format(time.RFC3339),
				End:   o.End.Format(time.RFC3339),
			})
		}

		var recurrenceEnd *string
		if cutoff := b.Cutoff(); cutoff != nil {
			s := cutoff.Format(time.RFC3339)
			recurrenceEnd = &s
		}

		bookings = append(bookings, BookingResponse{
			ID:            b.ID,
			RoomID:        b.RoomID,
			RequesterID:   b.RequesterID,
			Start:         b.Start.Format(time.RFC3339),
			End:           b.End.Format(time.RFC3339),
			Recurring:     b.IsRecurring,
			RecurrenceEnd: recurrenceEnd,
			Status:        string(b.Status),
			Occurrences:   occurrences,
			CreatedAt:     b.CreatedAt.Format(time.RFC3339),
			UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
		})
	}

	return &CreateBookingResponse{Bookings: bookings}
}

func fromConflict(message string, c *createBooking.ConflictError) *ConflictErrorResponse {
	resp := &ConflictErrorResponse{
		Error:       message,
		WindowIndex: c.WindowIndex,
		BookingID:   c.Result.BookingID,
		Reason:      c.Result.Reason,
	}
	if !c.Result.CollisionDate.IsZero() {
		resp.CollisionDate = c.Result.CollisionDate.Format(domain.DateFormat)
	}
	return resp
}
