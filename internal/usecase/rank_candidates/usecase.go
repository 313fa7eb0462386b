package rank_candidates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	userClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/ranking"
)

// UseCase use case ранжирования комнат для заявителя
type UseCase struct {
	profiles     ProfileProvider
	statsRepo    StatsRepository
	ranker       Ranker
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	profiles ProfileProvider,
	statsRepo StatsRepository,
	ranker Ranker,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		profiles:     profiles,
		statsRepo:    statsRepo,
		ranker:       ranker,
		opts:         opts.withDefaults(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute ранжирует переданные комнаты
// Комнаты без статистики не отбрасываются, агенты оценивают их по умолчанию.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RankCandidates: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("RankCandidates: requester=%d, rooms=%d", req.RequesterID, len(req.Rooms))

	// 1. Профиль заявителя
	profile, err := uc.profiles.GetRequesterProfile(ctx, req.RequesterID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("RankCandidates: requester=%d not found", req.RequesterID)
			return preconditionFailed(fmt.Sprintf("requester %d not found", req.RequesterID)), nil
		}
		uc.logger.Error("RankCandidates: failed to get requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: failed to get requester profile: %w", ErrInternal, err)
	}
	if !profile.IsActive {
		uc.logger.Warn("RankCandidates: requester=%d is inactive", req.RequesterID)
		return preconditionFailed(fmt.Sprintf("requester %d is inactive", req.RequesterID)), nil
	}

	if len(req.Rooms) == 0 {
		return &Response{Entries: []domain.ScoreEntry{}}, nil
	}

	// 2. Статистика использования комнат
	ids := make([]int64, 0, len(req.Rooms))
	for _, room := range req.Rooms {
		ids = append(ids, room.ID)
	}

	stats, err := uc.statsRepo.GetUsageStatsByRooms(ctx, ids)
	if err != nil {
		uc.logger.Error("RankCandidates: failed to get usage stats: %v", err)
		return nil, fmt.Errorf("%w: failed to get usage stats: %w", ErrInternal, err)
	}

	// 3. Недавние бронирования заявителя
	now := uc.timeProvider.Now()
	lastUsed, err := uc.statsRepo.GetLastUsage(ctx, req.RequesterID, now.Add(-uc.opts.RecencyWindow), now)
	if err != nil {
		uc.logger.Error("RankCandidates: failed to get last usage for requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: failed to get last usage: %w", ErrInternal, err)
	}

	preScores := ranking.RecencyPreScores(lastUsed, now, uc.opts.RecencyWindow, uc.opts.PreScoreCap)

	entries := uc.ranker.Rank(req.Rooms, *profile, stats, preScores)

	uc.logger.Info("RankCandidates: ranked %d rooms, stats=%d, recent=%d",
		len(entries), len(stats), len(preScores))

	return &Response{Entries: entries}, nil
}

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}
	return nil
}
