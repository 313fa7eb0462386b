package check_conflict

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/conflict"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// Request модель запроса проверки конфликтов для одной комнаты
type Request struct {
	RoomID  int64
	Windows []timewindow.Input
}

// Conflict одно пересечение запрошенного окна
type Conflict struct {
	WindowIndex   int
	OtherWindow   *int  // индекс другого запрошенного окна, nil если конфликт с бронированием
	BookingID     *int64
	CollisionDate time.Time
	Reason        string
}

// Response модель ответа; конфликт - это нормальный результат, а не ошибка
type Response struct {
	RoomID    int64
	Conflict  bool
	Conflicts []Conflict
}

func toConflict(c conflict.WindowConflict) Conflict {
	out := Conflict{
		WindowIndex:   c.WindowIndex,
		CollisionDate: c.Result.CollisionDate,
		Reason:        c.Result.Reason,
	}
	if c.OtherWindow >= 0 {
		other := c.OtherWindow
		out.OtherWindow = &other
	} else {
		id := c.Result.BookingID
		out.BookingID = &id
	}
	return out
}
