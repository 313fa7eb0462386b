package create_booking

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// Request модель запроса на создание бронирования
// Все окна создаются атомарно: либо все, либо ни одного.
type Request struct {
	RequesterID int64              // ID заявителя
	RoomID      int64              // ID комнаты
	Windows     []timewindow.Input // Запрошенные окна
}

// CreatedBooking созданное бронирование с ближайшими вхождениями
type CreatedBooking struct {
	Booking     domain.Booking
	Occurrences []timewindow.Occurrence // для разового бронирования - одно вхождение
}

// Response модель ответа с созданными бронированиями, в порядке окон запроса
type Response struct {
	Bookings []CreatedBooking
}

// Options параметры создания бронирования
type Options struct {
	AdvanceBookingDays int // 0 - без ограничения
	OccurrencePreview  int // сколько ближайших вхождений серии вернуть
}

func (o Options) withDefaults() Options {
	if o.AdvanceBookingDays < 0 {
		o.AdvanceBookingDays = 0
	}
	if o.OccurrencePreview <= 0 {
		o.OccurrencePreview = domain.DefaultOccurrencePreview
	}
	return o
}
