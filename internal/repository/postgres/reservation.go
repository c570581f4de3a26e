package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

const reservationColumns = `id, user_id, car_id, start_date, end_date, total_price_cents, status, period_status, created_on, updated_on`

var openStatusClause = statusInClause(domain.OpenStatuses)

func statusInClause(statuses []domain.ReservationStatus) string {
	quoted := make([]string, len(statuses))
	for i, st := range statuses {
		quoted[i] = "'" + string(st) + "'"
	}
	return "status IN (" + strings.Join(quoted, ", ") + ")"
}

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, rs *domain.Reservation) error {
	query := `INSERT INTO reservations (user_id, car_id, start_date, end_date, total_price_cents, status, period_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, rs.UserID, rs.CarID, rs.StartDate, rs.EndDate, rs.TotalPriceCents, rs.Status, periodArg(rs.PeriodStatus), now, now).Scan(&rs.ID)
	if err != nil {
		// reservations_one_open_per_car backs up the car status gate
		if isUniqueViolation(err) {
			return domain.ErrCarUnavailable
		}
		return persistenceErr("insert reservation", err)
	}
	rs.CreatedOn = now
	rs.UpdatedOn = now
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *reservationRepository) getOne(ctx context.Context, query string, id int32) (*domain.Reservation, error) {
	rs, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, persistenceErr("get reservation", err)
	}
	return rs, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, rs *domain.Reservation) error {
	query := `UPDATE reservations SET status=$1, period_status=$2, updated_on=$3 WHERE id=$4`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, rs.Status, periodArg(rs.PeriodStatus), now, rs.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCarUnavailable
		}
		return persistenceErr("update reservation status", err)
	}
	if err := expectOneRow(res, domain.ErrReservationNotFound); err != nil {
		return err
	}
	rs.UpdatedOn = now
	return nil
}

func (r *reservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`

	var args []any
	argIdx := 1
	if filter.UserID != 0 {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.CarID != 0 {
		query += fmt.Sprintf(" AND car_id = $%d", argIdx)
		args = append(args, filter.CarID)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	query += " ORDER BY created_on DESC, id DESC"

	return r.list(ctx, query, args...)
}

func (r *reservationRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE end_date < $1 AND ` + openStatusClause + `
	          ORDER BY end_date`
	return r.list(ctx, query, now)
}

func (r *reservationRepository) CountOpenByCar(ctx context.Context, carID int32) (int, error) {
	query := `SELECT count(*) FROM reservations WHERE car_id = $1 AND ` + openStatusClause
	var n int
	if err := r.db.QueryRowContext(ctx, query, carID).Scan(&n); err != nil {
		return 0, persistenceErr("count open reservations", err)
	}
	return n, nil
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("list reservations", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rs, err := scanReservation(rows)
		if err != nil {
			return nil, persistenceErr("scan reservation", err)
		}
		out = append(out, *rs)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate reservations", err)
	}
	return out, nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		rs     domain.Reservation
		period sql.NullString
	)
	if err := row.Scan(&rs.ID, &rs.UserID, &rs.CarID, &rs.StartDate, &rs.EndDate, &rs.TotalPriceCents, &rs.Status, &period, &rs.CreatedOn, &rs.UpdatedOn); err != nil {
		return nil, err
	}
	if period.Valid {
		ps := domain.PeriodStatus(period.String)
		rs.PeriodStatus = &ps
	}
	return &rs, nil
}

func periodArg(ps *domain.PeriodStatus) sql.NullString {
	if ps == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*ps), Valid: true}
}
