package stats

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

var statsColumns = []string{
	"room_id",
	"usage_rate",
	"cancellation_count",
	"updated_at",
}

// Repository читает агрегированную статистику использования комнат.
// Статистику считает внешний процесс, здесь она только читается.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория статистики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetUsageStats возвращает статистику комнаты или ErrStatsNotFound, если записи нет.
// Неопределённая доля использования (NULL) возвращается как NaN.
func (r *Repository) GetUsageStats(ctx context.Context, roomID int64) (*domain.UsageStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(statsColumns...).
		From("room_usage_stats").
		Where(squirrel.Eq{"room_id": roomID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUsageStats - build select query: %w", ErrBuildQuery, err)
	}

	stats, err := scanStats(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUsageStats - scan row: %w", ErrScanRow, err)
	}

	return stats, nil
}

// GetUsageStatsByRooms возвращает статистику для набора комнат одним запросом.
// Комнаты без записи в результат не попадают.
func (r *Repository) GetUsageStatsByRooms(ctx context.Context, roomIDs []int64) (map[int64]*domain.UsageStats, error) {
	out := make(map[int64]*domain.UsageStats, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(statsColumns...).
		From("room_usage_stats").
		Where(squirrel.Eq{"room_id": roomIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUsageStatsByRooms - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUsageStatsByRooms - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetUsageStatsByRooms - scan row: %w", ErrScanRow, err)
		}
		out[stats.RoomID] = stats
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetUsageStatsByRooms - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}

// GetLastUsage возвращает для каждой комнаты начало последнего вхождения действующего бронирования
// заявителя в промежутке [since, until]. Для повторяющегося бронирования это последнее недельное
// вхождение не позже until, а не первое, поэтому давно начатая серия тоже считается недавней.
func (r *Repository) GetLastUsage(ctx context.Context, requesterID int64, since, until time.Time) (map[int64]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := lastUsageQuery(requesterID, since.UTC(), until.UTC()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLastUsage - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLastUsage - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetLastUsage - scan row: %w", ErrScanRow, err)
		}
		at, ok := u.lastStartBefore(until)
		if !ok || at.Before(since) {
			continue
		}
		if at.After(out[u.roomID]) {
			out[u.roomID] = at.UTC()
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetLastUsage - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}

const week = 7 * 24 * time.Hour

func lastUsageQuery(requesterID int64, since, until time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select("room_id", "start_at", "is_recurring", "recurrence_end").
		From("bookings").
		Where(squirrel.Eq{"requester_id": requesterID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.LtOrEq{"start_at": until}).
		Where(squirrel.Or{
			squirrel.GtOrEq{"start_at": since},
			squirrel.And{
				squirrel.Eq{"is_recurring": true},
				squirrel.Or{
					squirrel.Eq{"recurrence_end": nil},
					squirrel.GtOrEq{"recurrence_end": since},
				},
			},
		})
}

// usage одно бронирование заявителя для расчёта давности использования
type usage struct {
	roomID        int64
	start         time.Time
	recurring     bool
	recurrenceEnd *time.Time
}

// lastStartBefore возвращает начало последнего вхождения не позже until.
// Серия шагает ровно по неделе; сдвиг на час при переходе на летнее время здесь не важен.
func (u usage) lastStartBefore(until time.Time) (time.Time, bool) {
	if u.start.After(until) {
		return time.Time{}, false
	}
	if !u.recurring {
		return u.start, true
	}

	limit := until
	if u.recurrenceEnd != nil && u.recurrenceEnd.Before(limit) {
		limit = *u.recurrenceEnd
	}
	if u.start.After(limit) {
		return time.Time{}, false
	}

	weeks := limit.Sub(u.start) / week
	return u.start.Add(weeks * week), true
}

func scanUsage(row rowScanner) (usage, error) {
	var (
		u             usage
		recurrenceEnd sql.NullTime
	)
	if err := row.Scan(&u.roomID, &u.start, &u.recurring, &recurrenceEnd); err != nil {
		return usage{}, err
	}
	if recurrenceEnd.Valid {
		t := recurrenceEnd.Time
		u.recurrenceEnd = &t
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStats(row rowScanner) (*domain.UsageStats, error) {
	var (
		stats     domain.UsageStats
		usageRate sql.NullFloat64
		updatedAt sql.NullTime
	)

	if err := row.Scan(&stats.RoomID, &usageRate, &stats.CancellationCount, &updatedAt); err != nil {
		return nil, err
	}

	stats.UsageRate = math.NaN()
	if usageRate.Valid {
		stats.UsageRate = usageRate.Float64
	}
	stats.UpdatedAt = updatedAt.Time

	return &stats, nil
}
