package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"room_id",
	"requester_id",
	"start_at",
	"end_at",
	"is_recurring",
	"recurrence_end",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями комнат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Вызывать внутри транзакции вместе с GetActiveBookings, чтобы повторная проверка конфликтов
// и вставка видели одно и то же состояние.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	status := booking.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	recurrenceEnd := storedCutoff(booking)

	query, args, err := insertBooking(booking, status, recurrenceEnd).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.Status = status
	booking.RecurrenceEnd = recurrenceEnd
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetActiveBookings возвращает бронирования комнаты, которые ещё блокируют её на момент asOf:
// разовые, которые не закончились, и повторяющиеся без даты окончания или с датой окончания после asOf.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) GetActiveBookings(ctx context.Context, roomID int64, asOf time.Time) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(activeAt(asOf.UTC())).
		OrderBy("start_at", "id")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBookings - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBookings - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// LockRoom берёт транзакционную advisory-блокировку на комнату.
// Блокировка снимается при commit/rollback, поэтому вызывается только внутри транзакции.
func (r *Repository) LockRoom(ctx context.Context, roomID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", roomID); err != nil {
		return fmt.Errorf("%w: LockRoom - room=%d: %w", ErrExecQuery, roomID, err)
	}

	return nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func insertBooking(booking *domain.Booking, status domain.BookingStatus, recurrenceEnd *time.Time) squirrel.InsertBuilder {
	return psqlbuilder.Insert("bookings").
		Columns(
			"room_id",
			"requester_id",
			"start_at",
			"end_at",
			"is_recurring",
			"recurrence_end",
			"status",
		).
		Values(
			booking.RoomID,
			booking.RequesterID,
			booking.Start.UTC(),
			booking.End.UTC(),
			booking.IsRecurring,
			recurrenceEnd,
			status,
		).
		Suffix("RETURNING id, created_at, updated_at")
}

// storedCutoff возвращает дату окончания серии с точностью timestamptz.
// Postgres округляет всё точнее микросекунды, и конец дня 23:59:59.999999999 превращается в полночь следующего дня.
func storedCutoff(booking *domain.Booking) *time.Time {
	if !booking.IsRecurring || booking.RecurrenceEnd == nil {
		return nil
	}
	t := booking.RecurrenceEnd.UTC().Truncate(time.Microsecond)
	return &t
}

// activeAt is the SQL form of domain.Booking.IsActiveAt
func activeAt(asOf time.Time) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.And{
			squirrel.Eq{"is_recurring": false},
			squirrel.Gt{"end_at": asOf},
		},
		squirrel.And{
			squirrel.Eq{"is_recurring": true},
			squirrel.Or{
				squirrel.Eq{"recurrence_end": nil},
				squirrel.Gt{"recurrence_end": asOf},
			},
		},
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		recurrenceEnd        sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.RequesterID,
		&booking.Start,
		&booking.End,
		&booking.IsRecurring,
		&recurrenceEnd,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Start = booking.Start.UTC()
	booking.End = booking.End.UTC()
	if recurrenceEnd.Valid {
		t := recurrenceEnd.Time.UTC()
		booking.RecurrenceEnd = &t
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
