package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

// Service сервис для работы с созданными бронированиями
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Заявитель видит только свои бронирования
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getOwned(ctx, "GetByID", id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование заявителя
// Отменённое бронирование перестаёт блокировать комнату для поиска и проверки конфликтов.
func (s *Service) Cancel(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", id, userID)

	booking, err := s.getOwned(ctx, "Cancel", id, userID)
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled(s.timeProvider.Now()) {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", id, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during update", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d, room=%d", id, booking.RoomID)
	return nil
}

// getOwned загружает бронирование и проверяет, что оно принадлежит userID
func (s *Service) getOwned(ctx context.Context, op string, id int64, userID int64) (*domain.Booking, error) {
	if id <= 0 || userID <= 0 {
		return nil, fmt.Errorf("%w: booking and user IDs must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}

	if booking.RequesterID != userID {
		s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, userID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
