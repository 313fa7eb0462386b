package search_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	ListCandidates(ctx context.Context, filter domain.RoomFilter, afterID int64, limit int) ([]domain.Room, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveBookings(ctx context.Context, roomID int64, asOf time.Time) ([]domain.Booking, error)
}

// ProfileProvider интерфейс получения профиля заявителя
type ProfileProvider interface {
	GetRequesterProfile(ctx context.Context, userID int64) (*domain.RequesterProfile, error)
}

// WindowNormalizer интерфейс нормализации запрошенных окон
type WindowNormalizer interface {
	ParseAndNormalize(inputs []timewindow.Input) ([]domain.NormalizedWindow, error)
}

// ConflictEvaluator интерфейс проверки конфликтов
type ConflictEvaluator interface {
	FirstConflict(windows []domain.NormalizedWindow, bookings []domain.Booking) (int, domain.ConflictResult)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncConflicts(operation string, n int)
	ObserveRoomsExamined(n int)
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
