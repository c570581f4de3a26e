package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, name, password_hash, role, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now().UTC()
	if err := r.db.QueryRowContext(ctx, query, u.Email, u.Name, u.PasswordHash, u.Role, now).Scan(&u.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return persistenceErr("insert user", err)
	}
	u.CreatedOn = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, email, name, password_hash, role, created_on FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, name, password_hash, role, created_on FROM users WHERE lower(email) = lower($1)`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, persistenceErr("get user", err)
	}
	return u, nil
}
