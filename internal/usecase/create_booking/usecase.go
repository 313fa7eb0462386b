package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/lock"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	userClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

const metricsOperation = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	profiles     ProfileProvider
	normalizer   WindowNormalizer
	evaluator    ConflictEvaluator
	locker       RoomLocker
	txManager    TransactionManager
	metrics      Metrics
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	profiles ProfileProvider,
	normalizer WindowNormalizer,
	evaluator ConflictEvaluator,
	locker RoomLocker,
	txManager TransactionManager,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	if locker == nil {
		locker = lock.NopLocker{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		profiles:     profiles,
		normalizer:   normalizer,
		evaluator:    evaluator,
		locker:       locker,
		txManager:    txManager,
		metrics:      metrics,
		opts:         opts.withDefaults(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Сначала окна проверяются без блокировок, затем под блокировкой комнаты в сериализуемой
// транзакции бронирования перечитываются и проверяются повторно. Пересечение, найденное
// только при повторной проверке, и ошибка сериализации возвращаются как ErrWriteRaceLost.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: requester=%d, room=%d, windows=%d", req.RequesterID, req.RoomID, len(req.Windows))

	now := uc.timeProvider.Now()

	// 2. Нормализуем окна
	windows, err := uc.normalizer.ParseAndNormalize(req.Windows)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid window: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}

	if clashes := uc.evaluator.EvaluateWindows(windows); len(clashes) > 0 {
		c := clashes[0]
		uc.logger.Warn("CreateBooking: window %d overlaps window %d", c.WindowIndex, c.OtherWindow)
		return nil, fmt.Errorf("%w: window %d: %w: %s",
			ErrInvalidWindow, c.WindowIndex, timewindow.ErrInvalidTimeRange, c.Result.Reason)
	}

	if err := validateTiming(windows, now, uc.opts.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: timing validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем заявителя
	profile, err := uc.profiles.GetRequesterProfile(ctx, req.RequesterID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: requester=%d not found", req.RequesterID)
			return nil, fmt.Errorf("%w: requester %d not found", ErrPreconditionFailed, req.RequesterID)
		}
		uc.logger.Error("CreateBooking: failed to get requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: failed to get requester profile: %w", ErrInternal, err)
	}
	if !profile.IsActive {
		uc.logger.Warn("CreateBooking: requester=%d is inactive", req.RequesterID)
		return nil, fmt.Errorf("%w: requester %d is inactive", ErrPreconditionFailed, req.RequesterID)
	}

	// 4. Проверяем комнату
	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CreateBooking: room=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CreateBooking: failed to get room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %w", ErrInternal, err)
	}
	if !room.IsActive {
		uc.logger.Warn("CreateBooking: room=%d is inactive", req.RoomID)
		return nil, ErrRoomNotFound
	}

	// 5. Предварительная проверка без блокировок
	bookings, err := uc.bookingRepo.GetActiveBookings(ctx, req.RoomID, now)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings for room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get active bookings: %w", ErrInternal, err)
	}
	if idx, res := uc.evaluator.FirstConflict(windows, bookings); res.Conflict {
		uc.logger.Warn("CreateBooking: room=%d window %d conflicts: %s", req.RoomID, idx, res.Reason)
		uc.metrics.IncConflicts(metricsOperation, 1)
		return nil, &ConflictError{WindowIndex: idx, Result: res}
	}

	// 6. Блокировка комнаты в Redis, чтобы конкурирующие запросы не доходили до БД
	release, err := uc.locker.Acquire(ctx, req.RoomID)
	switch {
	case errors.Is(err, lock.ErrLockBusy):
		uc.logger.Warn("CreateBooking: room=%d is being booked by another request", req.RoomID)
		uc.metrics.IncWriteRaceLost()
		return nil, fmt.Errorf("%w: %w", ErrWriteRaceLost, err)
	case err != nil:
		// Redis недоступен: транзакция с advisory-блокировкой защищает запись и без него
		uc.logger.Warn("CreateBooking: room lock unavailable, continuing without it: %v", err)
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				uc.logger.Warn("CreateBooking: failed to release lock for room=%d: %v", req.RoomID, err)
			}
		}()
	}

	created := make([]domain.Booking, 0, len(windows))

	// 7. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]

		if err := uc.bookingRepo.LockRoom(txCtx, req.RoomID); err != nil {
			return fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}

		current, err := uc.bookingRepo.GetActiveBookings(txCtx, req.RoomID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to get active bookings: %w", ErrInternal, err)
		}

		if idx, res := uc.evaluator.FirstConflict(windows, current); res.Conflict {
			return &ConflictError{WindowIndex: idx, Result: res, Race: true}
		}

		for i, w := range windows {
			booking, err := uc.bookingRepo.Create(txCtx, toBooking(req.RequesterID, req.RoomID, w))
			if err != nil {
				return fmt.Errorf("%w: failed to create booking for window %d: %w", ErrInternal, i, err)
			}
			created = append(created, *booking)
		}

		return nil
	})
	if err != nil {
		return nil, uc.txError(req.RoomID, err)
	}

	uc.metrics.IncBookingsCreated(len(created))

	resp := &Response{Bookings: make([]CreatedBooking, 0, len(created))}
	for i, b := range created {
		resp.Bookings = append(resp.Bookings, CreatedBooking{
			Booking:     b,
			Occurrences: uc.preview(windows[i], now),
		})
		uc.logger.Info("CreateBooking: successfully created booking id=%d, recurring=%t", b.ID, b.IsRecurring)
	}

	return resp, nil
}

// txError приводит ошибку транзакции к ошибкам use case
func (uc *UseCase) txError(roomID int64, err error) error {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		uc.logger.Warn("CreateBooking: room=%d taken concurrently, window %d: %s",
			roomID, conflictErr.WindowIndex, conflictErr.Result.Reason)
		uc.metrics.IncConflicts(metricsOperation, 1)
		uc.metrics.IncWriteRaceLost()
		return err
	case errors.Is(err, txmanager.ErrSerializationFailure):
		uc.logger.Warn("CreateBooking: room=%d serialization failure: %v", roomID, err)
		uc.metrics.IncWriteRaceLost()
		return fmt.Errorf("%w: %w", ErrWriteRaceLost, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: room=%d: %v", roomID, err)
		return err
	default:
		uc.logger.Error("CreateBooking: room=%d transaction failed: %v", roomID, err)
		return fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}
}

// preview возвращает ближайшие вхождения окна; ошибка не отменяет уже созданное бронирование
func (uc *UseCase) preview(w domain.NormalizedWindow, now time.Time) []timewindow.Occurrence {
	occurrences, err := uc.normalizer.Occurrences(w, now, uc.opts.OccurrencePreview)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to expand occurrences: %v", err)
		return []timewindow.Occurrence{}
	}
	return occurrences
}
