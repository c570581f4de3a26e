package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const pgUniqueViolation = "23505"

//go:embed migrations/*.sql
var migrations embed.FS

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db           *sql.DB
	cars         repository.CarRepository
	reservations repository.ReservationRepository
	users        repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		cars:         NewCarRepository(db),
		reservations: NewReservationRepository(db),
		users:        NewUserRepository(db),
	}
}

func (s *Store) Cars() repository.CarRepository                 { return s.cars }
func (s *Store) Reservations() repository.ReservationRepository { return s.reservations }
func (s *Store) Users() repository.UserRepository               { return s.users }

// WithTx runs fn inside a single database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	logger.DatabaseCall("begin", "BEGIN")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceErr("begin tx", err)
	}
	defer tx.Rollback()

	repos := repository.Repos{
		Cars:         NewCarRepository(tx),
		Reservations: NewReservationRepository(tx),
		Users:        NewUserRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.DatabaseResult("commit", 0, err)
		return persistenceErr("commit tx", err)
	}
	logger.DatabaseResult("commit", 0, nil)
	return nil
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}
