package timewindow

import "errors"

var (
	// ErrInvalidTimeRange возвращается, когда начало окна не раньше его конца
	// или дата окончания повторений раньше первой даты
	ErrInvalidTimeRange = errors.New("timewindow: invalid time range")

	// ErrInvalidDate возвращается при некорректной гражданской дате
	ErrInvalidDate = errors.New("timewindow: invalid date")

	// ErrInvalidTime возвращается при некорректном времени HH:MM
	ErrInvalidTime = errors.New("timewindow: invalid time")

	// ErrInvalidTimezone возвращается, если часовой пояс системы не найден
	ErrInvalidTimezone = errors.New("timewindow: invalid timezone")
)
