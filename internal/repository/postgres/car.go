package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

const carColumns = `id, brand, model, year, price_per_day_cents, status, latitude, longitude, address, version, created_on, updated_on`

type carRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (brand, model, year, price_per_day_cents, status, latitude, longitude, address, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now().UTC()
	lat, lng, addr := locationArgs(c.Location)
	if err := r.db.QueryRowContext(ctx, query, c.Brand, c.Model, c.Year, c.PricePerDayCents, c.Status, lat, lng, addr, now, now).Scan(&c.ID); err != nil {
		return persistenceErr("insert car", err)
	}
	c.Version = 0
	c.CreatedOn = now
	c.UpdatedOn = now
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND deleted_on IS NULL`
	return r.getOne(ctx, query, id)
}

func (r *carRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND deleted_on IS NULL FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *carRepository) getOne(ctx context.Context, query string, id int32) (*domain.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, persistenceErr("get car", err)
	}
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET brand=$1, model=$2, year=$3, price_per_day_cents=$4, latitude=$5, longitude=$6, address=$7, updated_on=$8, version=version+1
	          WHERE id=$9 AND deleted_on IS NULL`
	now := time.Now().UTC()
	lat, lng, addr := locationArgs(c.Location)
	res, err := r.db.ExecContext(ctx, query, c.Brand, c.Model, c.Year, c.PricePerDayCents, lat, lng, addr, now, c.ID)
	if err != nil {
		return persistenceErr("update car", err)
	}
	if err := expectOneRow(res, domain.ErrCarNotFound); err != nil {
		return err
	}
	c.Version++
	c.UpdatedOn = now
	return nil
}

func (r *carRepository) UpdateStatus(ctx context.Context, c *domain.Car, status domain.CarStatus) error {
	query := `UPDATE cars SET status=$1, version=version+1, updated_on=$2 WHERE id=$3 AND version=$4 AND deleted_on IS NULL`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, status, now, c.ID, c.Version)
	if err != nil {
		return persistenceErr("update car status", err)
	}
	if err := expectOneRow(res, domain.ErrConcurrentUpdate); err != nil {
		return err
	}
	c.Status = status
	c.Version++
	c.UpdatedOn = now
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id int32) error {
	query := `UPDATE cars SET deleted_on = $1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return persistenceErr("delete car", err)
	}
	return expectOneRow(res, domain.ErrCarNotFound)
}

func (r *carRepository) List(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE deleted_on IS NULL`

	var args []any
	argIdx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Brand != "" {
		query += fmt.Sprintf(" AND brand ILIKE $%d", argIdx)
		args = append(args, filter.Brand)
		argIdx++
	}
	query += " ORDER BY id"

	return r.list(ctx, query, args...)
}

func (r *carRepository) ListAvailableWithLocation(ctx context.Context) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars
	          WHERE status = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL AND deleted_on IS NULL
	          ORDER BY id`
	return r.list(ctx, query, domain.CarStatusAvailable)
}

func (r *carRepository) list(ctx context.Context, query string, args ...any) ([]domain.Car, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("list cars", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, persistenceErr("scan car", err)
		}
		cars = append(cars, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate cars", err)
	}
	return cars, nil
}

func scanCar(row rowScanner) (*domain.Car, error) {
	var (
		c        domain.Car
		lat, lng sql.NullFloat64
		addr     sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.PricePerDayCents, &c.Status, &lat, &lng, &addr, &c.Version, &c.CreatedOn, &c.UpdatedOn); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		c.Location = &domain.Location{Latitude: lat.Float64, Longitude: lng.Float64, Address: addr.String}
	}
	return &c, nil
}

func locationArgs(loc *domain.Location) (lat, lng sql.NullFloat64, addr sql.NullString) {
	if loc == nil {
		return
	}
	lat = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
	lng = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
	addr = sql.NullString{String: loc.Address, Valid: loc.Address != ""}
	return
}

func expectOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return persistenceErr("rows affected", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
