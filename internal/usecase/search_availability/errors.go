package search_availability

import "errors"

var (
	// ErrInvalidWindow возвращается, когда одно из запрошенных окон некорректно.
	// Текст ошибки содержит индекс окна.
	ErrInvalidWindow = errors.New("search_availability: invalid window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("search_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("search_availability: internal error")
)
