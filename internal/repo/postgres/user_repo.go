package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRecord struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

func (r *UserRepo) Create(ctx context.Context, username, email string) (UserRecord, error) {
	if username == "" || email == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (username, email)
VALUES ($1, $2)
RETURNING id, username, email, created_at
`, username, email).Scan(
		&rec.ID,
		&rec.Username,
		&rec.Email,
		&rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrDuplicateUser
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, username, email, created_at
FROM users
WHERE id = $1
`, userID).Scan(
		&rec.ID,
		&rec.Username,
		&rec.Email,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user: %w", err)
	}

	return rec, nil
}

// Exists is the identity lookup the swipe path uses before any write.
func (r *UserRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM users
WHERE id = $1
`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}

func (r *UserRepo) List(ctx context.Context, limit int) ([]UserRecord, error) {
	if limit <= 0 {
		limit = 200
	}
	if r.pool == nil {
		return []UserRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, username, email, created_at
FROM users
ORDER BY id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]UserRecord, 0, limit)
	for rows.Next() {
		var rec UserRecord
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.Email, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}

	return items, nil
}
