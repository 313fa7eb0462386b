package check_conflict

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

const metricsOperation = "check"

// UseCase use case проверки конфликтов без записи
type UseCase struct {
	roomRepo     RoomRepository
	bookingRepo  BookingRepository
	normalizer   WindowNormalizer
	evaluator    ConflictEvaluator
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	bookingRepo BookingRepository,
	normalizer WindowNormalizer,
	evaluator ConflictEvaluator,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		roomRepo:     roomRepo,
		bookingRepo:  bookingRepo,
		normalizer:   normalizer,
		evaluator:    evaluator,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет все запрошенные окна против активных бронирований комнаты и друг против друга.
// Возвращает все найденные пересечения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckConflict: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CheckConflict: room=%d, windows=%d", req.RoomID, len(req.Windows))

	windows, err := uc.normalizer.ParseAndNormalize(req.Windows)
	if err != nil {
		uc.logger.Warn("CheckConflict: invalid window: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}

	if _, err := uc.roomRepo.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CheckConflict: room=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CheckConflict: failed to get room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %w", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveBookings(ctx, req.RoomID, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("CheckConflict: failed to get bookings for room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get active bookings: %w", ErrInternal, err)
	}

	found := uc.evaluator.EvaluateWindows(windows)
	found = append(found, uc.evaluator.EvaluateAll(windows, bookings)...)

	resp := &Response{
		RoomID:    req.RoomID,
		Conflict:  len(found) > 0,
		Conflicts: make([]Conflict, 0, len(found)),
	}
	for _, c := range found {
		resp.Conflicts = append(resp.Conflicts, toConflict(c))
	}

	if resp.Conflict {
		uc.metrics.IncConflicts(metricsOperation, len(found))
	}

	uc.logger.Info("CheckConflict: room=%d checked against %d bookings, conflicts=%d",
		req.RoomID, len(bookings), len(found))

	return resp, nil
}

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}
	if len(req.Windows) == 0 {
		return fmt.Errorf("%w: at least one window is required", ErrInvalidInput)
	}
	if len(req.Windows) > domain.MaxRequestedWindows {
		return fmt.Errorf("%w: too many windows (%d > %d)", ErrInvalidInput, len(req.Windows), domain.MaxRequestedWindows)
	}
	return nil
}
