package domain

// Default configuration values
const (
	DefaultTimezone          = "America/Sao_Paulo"
	DefaultPageSize          = 20
	MaxPageSize              = 100
	DefaultSearchWorkers     = 8
	DefaultRecencyWindowDays = 30
	MaxRequestedWindows      = 50
	DefaultPreScoreCap       = 10.0
	DefaultOccurrencePreview = 8
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов бронирований, которые блокируют комнату
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
}
