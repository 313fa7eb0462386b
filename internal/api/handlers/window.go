package handlers

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// WindowRequest запрошенное окно в HTTP запросе
type WindowRequest struct {
	Date          string  `json:"date"`      // "2025-11-12"
	StartTime     string  `json:"startTime"` // "08:00"
	EndTime       string  `json:"endTime"`   // "12:00"
	Recurring     bool    `json:"recurring"`
	RecurrenceEnd *string `json:"recurrenceEnd,omitempty"` // "2026-01-21", последняя дата серии включительно
}

// ToInputs конвертирует окна запроса в модель нормализатора
func ToInputs(windows []WindowRequest) []timewindow.Input {
	out := make([]timewindow.Input, 0, len(windows))
	for _, w := range windows {
		out = append(out, timewindow.Input{
			Date:          w.Date,
			StartTime:     w.StartTime,
			EndTime:       w.EndTime,
			Recurring:     w.Recurring,
			RecurrenceEnd: w.RecurrenceEnd,
		})
	}
	return out
}
