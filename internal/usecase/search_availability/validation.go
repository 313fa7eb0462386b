package search_availability

import (
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// validateRequest проверяет входные данные до обращения к репозиториям
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requester id is required", ErrInvalidInput)
	}
	if len(req.Windows) == 0 {
		return fmt.Errorf("%w: at least one window is required", ErrInvalidInput)
	}
	if len(req.Windows) > domain.MaxRequestedWindows {
		return fmt.Errorf("%w: too many windows (%d > %d)", ErrInvalidInput, len(req.Windows), domain.MaxRequestedWindows)
	}
	if req.Cursor < 0 {
		return fmt.Errorf("%w: cursor must not be negative", ErrInvalidInput)
	}
	if req.PageSize < 0 {
		return fmt.Errorf("%w: page size must not be negative", ErrInvalidInput)
	}
	return nil
}

// pageSize применяет значение по умолчанию и верхнюю границу
func (o Options) pageSize(requested int) int {
	if requested == 0 {
		return o.DefaultPageSize
	}
	if requested > o.MaxPageSize {
		return o.MaxPageSize
	}
	return requested
}
