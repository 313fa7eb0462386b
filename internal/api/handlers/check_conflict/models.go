package check_conflict

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	checkConflict "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_conflict"
)

// CheckConflictRequest HTTP request model
type CheckConflictRequest struct {
	Windows []handlers.WindowRequest `json:"windows"`
}

// ConflictResponse одно пересечение
type ConflictResponse struct {
	WindowIndex   int    `json:"windowIndex"`
	OtherWindow   *int   `json:"otherWindow,omitempty"`
	BookingID     *int64 `json:"bookingId,omitempty"`
	CollisionDate string `json:"collisionDate"`
	Reason        string `json:"reason"`
}

// CheckConflictResponse HTTP response model
type CheckConflictResponse struct {
	RoomID    int64              `json:"roomId"`
	Conflict  bool               `json:"conflict"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckConflictRequest) ToUseCaseRequest(roomID int64) *checkConflict.Request {
	return &checkConflict.Request{
		RoomID:  roomID,
		Windows: handlers.ToInputs(r.Windows),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkConflict.Response) *CheckConflictResponse {
	conflicts := make([]ConflictResponse, 0, len(resp.Conflicts))
	for _, c := range resp.Conflicts {
		conflicts = append(conflicts, ConflictResponse{
			WindowIndex:   c.WindowIndex,
			OtherWindow:   c.OtherWindow,
			BookingID:     c.BookingID,
			CollisionDate: c.CollisionDate.Format(domain.DateFormat),
			Reason:        c.Reason,
		})
	}

	return &CheckConflictResponse{
		RoomID:    resp.RoomID,
		Conflict:  resp.Conflict,
		Conflicts: conflicts,
	}
}
