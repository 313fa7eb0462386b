package room

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

var roomColumns = []string{
	"id",
	"label",
	"block",
	"room_type",
	"specialty_id",
	"is_active",
}

// Repository репозиторий комнат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория комнат
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListCandidates возвращает активные комнаты с id строго больше afterID, отсортированные по id.
// Пустые поля фильтра не применяются; Query ищет подстроку в названии, блоке и типе без учёта регистра.
func (r *Repository) ListCandidates(ctx context.Context, filter domain.RoomFilter, afterID int64, limit int) ([]domain.Room, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := candidatesQuery(filter, afterID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListCandidates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCandidates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0, limit)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListCandidates - scan row: %w", ErrScanRow, err)
		}
		rooms = append(rooms, *room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCandidates - rows error: %w", ErrScanRow, err)
	}

	return rooms, nil
}

// GetByID получает комнату по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	room, err := scanRoom(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan room: %w", ErrScanRow, err)
	}

	return room, nil
}

func candidatesQuery(filter domain.RoomFilter, afterID int64, limit int) squirrel.SelectBuilder {
	q := psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Gt{"id": afterID})

	if text := strings.TrimSpace(filter.Query); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"label": pattern},
			squirrel.ILike{"block": pattern},
			squirrel.ILike{"room_type": pattern},
		})
	}
	if filter.Block != "" {
		q = q.Where(squirrel.Eq{"block": filter.Block})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"room_type": filter.Type})
	}
	if filter.SpecialtyID != nil {
		q = q.Where(squirrel.Eq{"specialty_id": *filter.SpecialtyID})
	}

	return q.OrderBy("id").Limit(uint64(limit))
}

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var (
		room      domain.Room
		specialty sql.NullInt64
	)

	if err := row.Scan(
		&room.ID,
		&room.Label,
		&room.Block,
		&room.Type,
		&specialty,
		&room.IsActive,
	); err != nil {
		return nil, err
	}

	if specialty.Valid {
		id := specialty.Int64
		room.SpecialtyID = &id
	}

	return &room, nil
}
