package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/conflict"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveBookings(ctx context.Context, roomID int64, asOf time.Time) ([]domain.Booking, error)
	LockRoom(ctx context.Context, roomID int64) error
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// ProfileProvider интерфейс получения профиля заявителя
type ProfileProvider interface {
	GetRequesterProfile(ctx context.Context, userID int64) (*domain.RequesterProfile, error)
}

// WindowNormalizer интерфейс нормализации окон и раскрытия серии
type WindowNormalizer interface {
	ParseAndNormalize(inputs []timewindow.Input) ([]domain.NormalizedWindow, error)
	Occurrences(w domain.NormalizedWindow, from time.Time, limit int) ([]timewindow.Occurrence, error)
}

// ConflictEvaluator интерфейс проверки конфликтов
type ConflictEvaluator interface {
	FirstConflict(windows []domain.NormalizedWindow, bookings []domain.Booking) (int, domain.ConflictResult)
	EvaluateWindows(windows []domain.NormalizedWindow) []conflict.WindowConflict
}

// RoomLocker интерфейс распределенной блокировки комнаты
type RoomLocker interface {
	Acquire(ctx context.Context, roomID int64) (lock.ReleaseFunc, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncConflicts(operation string, n int)
	IncBookingsCreated(n int)
	IncWriteRaceLost()
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
