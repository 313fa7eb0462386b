package check_conflict

import "errors"

var (
	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("check_conflict: room not found")

	// ErrInvalidWindow возвращается, когда одно из запрошенных окон некорректно
	ErrInvalidWindow = errors.New("check_conflict: invalid window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_conflict: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_conflict: internal error")
)
