package check_conflict

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/conflict"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveBookings(ctx context.Context, roomID int64, asOf time.Time) ([]domain.Booking, error)
}

// WindowNormalizer интерфейс нормализации запрошенных окон
type WindowNormalizer interface {
	ParseAndNormalize(inputs []timewindow.Input) ([]domain.NormalizedWindow, error)
}

// ConflictEvaluator интерфейс проверки конфликтов
type ConflictEvaluator interface {
	EvaluateAll(windows []domain.NormalizedWindow, bookings []domain.Booking) []conflict.WindowConflict
	EvaluateWindows(windows []domain.NormalizedWindow) []conflict.WindowConflict
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncConflicts(operation string, n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
