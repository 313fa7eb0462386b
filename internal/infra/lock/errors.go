package lock

import "errors"

var (
	// ErrLockBusy возвращается, когда комнату уже бронирует другой запрос
	ErrLockBusy = errors.New("lock: room is locked by another request")

	// ErrLockUnavailable возвращается при ошибках Redis
	ErrLockUnavailable = errors.New("lock: redis unavailable")
)
