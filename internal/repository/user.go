package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
)

// ErrDuplicate is returned when a unique key is already taken.
var ErrDuplicate = errors.New("duplicate")

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) CreateUser(ctx context.Context, user model.User) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, is_active, created_at)
		VALUES (@id, @username, @password_hash, @is_active, @created_at)
	`, pgx.NamedArgs{
		"id":            user.ID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"is_active":     user.Active,
		"created_at":    user.CreatedAt,
	}); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r userRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, password_hash, is_active, created_at
		FROM users
		WHERE username = @username
	`, pgx.NamedArgs{"username": username})
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Active, &u.CreatedAt)
		return u, err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("collect user: %w", err)
	}

	return user, nil
}
