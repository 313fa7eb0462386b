package search_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	userClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/userservice"
)

const metricsOperation = "search"

// UseCase use case поиска свободных комнат
type UseCase struct {
	roomRepo     RoomRepository
	bookingRepo  BookingRepository
	profiles     ProfileProvider
	normalizer   WindowNormalizer
	evaluator    ConflictEvaluator
	metrics      Metrics
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	bookingRepo BookingRepository,
	profiles ProfileProvider,
	normalizer WindowNormalizer,
	evaluator ConflictEvaluator,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		roomRepo:     roomRepo,
		bookingRepo:  bookingRepo,
		profiles:     profiles,
		normalizer:   normalizer,
		evaluator:    evaluator,
		metrics:      metrics,
		opts:         opts.withDefaults(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет поиск свободных комнат
// Кандидаты читаются пачками в порядке возрастания ID начиная строго после курсора
// (не больше, чем осталось мест на странице),
// каждая пачка проверяется параллельно ограниченным пулом, а результат собирается
// в исходном порядке, поэтому параллельность не влияет на порядок выдачи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SearchAvailability: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("SearchAvailability: requester=%d, windows=%d, cursor=%d, pageSize=%d",
		req.RequesterID, len(req.Windows), req.Cursor, req.PageSize)

	// 2. Нормализуем окна один раз до любых обращений к репозиториям
	windows, err := uc.normalizer.ParseAndNormalize(req.Windows)
	if err != nil {
		uc.logger.Warn("SearchAvailability: invalid window: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}

	// 3. Проверяем заявителя: неизвестный или неактивный - пустой ответ, а не ошибка
	profile, err := uc.profiles.GetRequesterProfile(ctx, req.RequesterID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("SearchAvailability: requester=%d not found", req.RequesterID)
			return preconditionFailed(req.Cursor, fmt.Sprintf("requester %d not found", req.RequesterID)), nil
		}
		uc.logger.Error("SearchAvailability: failed to get requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: failed to get requester profile: %w", ErrInternal, err)
	}
	if !profile.IsActive {
		uc.logger.Warn("SearchAvailability: requester=%d is inactive", req.RequesterID)
		return preconditionFailed(req.Cursor, fmt.Sprintf("requester %d is inactive", req.RequesterID)), nil
	}

	// 4. Сканируем кандидатов
	resp, err := uc.scan(ctx, req.Filter, windows, req.Cursor, uc.opts.pageSize(req.PageSize))
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveRoomsExamined(resp.Examined)
	uc.logger.Info("SearchAvailability: found %d rooms, examined=%d, nextCursor=%d, hasMore=%t",
		len(resp.Rooms), resp.Examined, resp.NextCursor, resp.HasMore)

	return resp, nil
}

func (uc *UseCase) scan(
	ctx context.Context,
	filter domain.RoomFilter,
	windows []domain.NormalizedWindow,
	cursor int64,
	pageSize int,
) (*Response, error) {
	resp := emptyResponse(cursor)
	now := uc.timeProvider.Now()
	after := cursor

	for len(resp.Rooms) < pageSize {
		// Читаем не больше кандидатов, чем осталось мест на странице
		limit := min(uc.opts.BatchSize, pageSize-len(resp.Rooms))
		batch, err := uc.roomRepo.ListCandidates(ctx, filter, after, limit)
		if err != nil {
			uc.logger.Error("SearchAvailability: failed to list candidates after=%d: %v", after, err)
			return nil, fmt.Errorf("%w: failed to list candidates: %w", ErrInternal, err)
		}
		if len(batch) == 0 {
			return resp, nil
		}

		free, err := uc.evaluateBatch(ctx, batch, windows, now)
		if err != nil {
			return nil, err
		}

		for i, room := range batch {
			resp.NextCursor = room.ID
			resp.Examined++
			if free[i] {
				resp.Rooms = append(resp.Rooms, room)
			}
		}

		if len(batch) < limit {
			return resp, nil
		}
		after = resp.NextCursor
	}

	// Страница заполнена последним кандидатом пачки: есть ли ещё непросмотренные
	probe, err := uc.roomRepo.ListCandidates(ctx, filter, resp.NextCursor, 1)
	if err != nil {
		uc.logger.Error("SearchAvailability: failed to probe candidates after=%d: %v", resp.NextCursor, err)
		return nil, fmt.Errorf("%w: failed to list candidates: %w", ErrInternal, err)
	}
	resp.HasMore = len(probe) > 0

	return resp, nil
}

// evaluateBatch проверяет комнаты пачки параллельно; результат i соответствует batch[i]
func (uc *UseCase) evaluateBatch(
	ctx context.Context,
	batch []domain.Room,
	windows []domain.NormalizedWindow,
	now time.Time,
) ([]bool, error) {
	free := make([]bool, len(batch))
	conflicts := make([]bool, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.Workers)

	for i, room := range batch {
		i, room := i, room
		g.Go(func() error {
			bookings, err := uc.bookingRepo.GetActiveBookings(gctx, room.ID, now)
			if err != nil {
				return fmt.Errorf("%w: failed to get active bookings for room=%d: %w", ErrInternal, room.ID, err)
			}

			idx, res := uc.evaluator.FirstConflict(windows, bookings)
			if res.Conflict {
				conflicts[i] = true
				uc.logger.Info("SearchAvailability: room=%d rejected, window %d: %s", room.ID, idx, res.Reason)
				return nil
			}

			free[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("SearchAvailability: batch evaluation failed: %v", err)
		return nil, err
	}

	rejected := 0
	for _, c := range conflicts {
		if c {
			rejected++
		}
	}
	if rejected > 0 {
		uc.metrics.IncConflicts(metricsOperation, rejected)
	}

	return free, nil
}

func preconditionFailed(cursor int64, reason string) *Response {
	resp := emptyResponse(cursor)
	resp.PreconditionFailed = true
	resp.Reason = reason
	return resp
}
