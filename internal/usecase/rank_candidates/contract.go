package rank_candidates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// ProfileProvider интерфейс получения профиля заявителя
type ProfileProvider interface {
	GetRequesterProfile(ctx context.Context, userID int64) (*domain.RequesterProfile, error)
}

// StatsRepository интерфейс репозитория статистики использования комнат
type StatsRepository interface {
	GetUsageStatsByRooms(ctx context.Context, roomIDs []int64) (map[int64]*domain.UsageStats, error)
	GetLastUsage(ctx context.Context, requesterID int64, since, until time.Time) (map[int64]time.Time, error)
}

// Ranker интерфейс воронки ранжирования
type Ranker interface {
	Rank(
		rooms []domain.Room,
		profile domain.RequesterProfile,
		statsByRoom map[int64]*domain.UsageStats,
		recencyPreScores map[int64]float64,
	) []domain.ScoreEntry
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
