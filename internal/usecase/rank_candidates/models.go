package rank_candidates

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса ранжирования уже отобранных комнат
type Request struct {
	RequesterID int64
	Rooms       []domain.Room
}

// Response модель ответа ранжирования
type Response struct {
	Entries []domain.ScoreEntry // По убыванию score, при равенстве - в порядке запроса

	// PreconditionFailed выставляется, если заявитель неизвестен или неактивен
	PreconditionFailed bool
	Reason             string
}

// Options параметры ранжирования
type Options struct {
	RecencyWindow time.Duration // за какой период учитывать прошлые бронирования заявителя
	PreScoreCap   float64       // максимальный бонус за недавнее использование
}

func (o Options) withDefaults() Options {
	if o.RecencyWindow <= 0 {
		o.RecencyWindow = domain.DefaultRecencyWindowDays * 24 * time.Hour
	}
	if o.PreScoreCap <= 0 {
		o.PreScoreCap = domain.DefaultPreScoreCap
	}
	return o
}

func preconditionFailed(reason string) *Response {
	return &Response{
		Entries:            []domain.ScoreEntry{},
		PreconditionFailed: true,
		Reason:             reason,
	}
}
