package search_availability

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
)

// Request модель запроса поиска свободных комнат
type Request struct {
	RequesterID int64              // ID заявителя
	Filter      domain.RoomFilter  // Фильтры кандидатов
	Windows     []timewindow.Input // Запрошенные окна
	Cursor      int64              // ID последней просмотренной комнаты (0 - с начала)
	PageSize    int                // Размер страницы (0 - по умолчанию)
}

// Response модель ответа поиска
type Response struct {
	Rooms      []domain.Room // Свободные комнаты в порядке возрастания ID
	NextCursor int64         // ID последней просмотренной комнаты
	HasMore    bool          // Остались непросмотренные кандидаты после заполнения страницы
	Examined   int           // Сколько кандидатов просмотрено

	// PreconditionFailed выставляется, если заявитель неизвестен или неактивен.
	// В этом случае Rooms пуст, а ошибка не возвращается.
	PreconditionFailed bool
	Reason             string
}

// Options параметры поиска
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	BatchSize       int // сколько кандидатов читать из репозитория за раз
	Workers         int // сколько комнат проверять параллельно
}

func (o Options) withDefaults() Options {
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = domain.DefaultPageSize
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = domain.MaxPageSize
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	if o.BatchSize <= 0 {
		o.BatchSize = o.MaxPageSize
	}
	if o.Workers <= 0 {
		o.Workers = domain.DefaultSearchWorkers
	}
	return o
}

func emptyResponse(cursor int64) *Response {
	return &Response{
		Rooms:      []domain.Room{},
		NextCursor: cursor,
	}
}
