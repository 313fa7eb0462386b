package userservice

import "github.com/m04kA/SMC-RoomBookingService/internal/domain"

// Profile модель профиля пользователя из UserService
type Profile struct {
	ID          int64  `json:"id"`
	SpecialtyID *int64 `json:"specialty_id,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// ToDomain конвертирует профиль в domain.RequesterProfile.
// Если сервис не вернул id, используется запрошенный.
func (p Profile) ToDomain(requestedID int64) *domain.RequesterProfile {
	id := p.ID
	if id == 0 {
		id = requestedID
	}
	return &domain.RequesterProfile{
		ID:          id,
		SpecialtyID: p.SpecialtyID,
		IsActive:    p.IsActive,
	}
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
