package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrRoomNotFound возвращается, когда комната не найдена или выведена из оборота
	ErrRoomNotFound = errors.New("create_booking: room not found")

	// ErrPreconditionFailed возвращается, когда заявитель неизвестен или неактивен
	ErrPreconditionFailed = errors.New("create_booking: precondition failed")

	// ErrInvalidWindow возвращается, когда одно из запрошенных окон некорректно
	ErrInvalidWindow = errors.New("create_booking: invalid window")

	// ErrWindowInPast возвращается, когда окно начинается раньше текущего момента
	ErrWindowInPast = errors.New("create_booking: window starts in the past")

	// ErrDateTooFarInFuture возвращается, когда окно превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrConflictDetected возвращается, когда окно пересекается с активным бронированием
	ErrConflictDetected = errors.New("create_booking: conflict detected")

	// ErrWriteRaceLost возвращается, когда конкурентная запись заняла комнату раньше
	ErrWriteRaceLost = errors.New("create_booking: write race lost")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictError описывает найденное пересечение.
// Race выставляется, если пересечение обнаружено только при повторной проверке внутри транзакции.
type ConflictError struct {
	WindowIndex int
	Result      domain.ConflictResult
	Race        bool
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: window %d: %s", e.Unwrap(), e.WindowIndex, e.Result.Reason)
}

func (e *ConflictError) Unwrap() error {
	if e.Race {
		return ErrWriteRaceLost
	}
	return ErrConflictDetected
}
