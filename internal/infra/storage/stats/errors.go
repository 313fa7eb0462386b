package stats

import "errors"

var (
	// ErrStatsNotFound возвращается, когда для комнаты ещё нет статистики
	ErrStatsNotFound = errors.New("stats.repository: stats not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("stats.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("stats.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("stats.repository: failed to scan row")
)
