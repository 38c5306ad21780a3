package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WyattC-ctrl/StudyBuddy/internal/domain/model"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

type MatchRecord struct {
	ID         int64
	UserLowID  int64
	UserHighID int64
	MatchedAt  time.Time
}

type UserMatchRecord struct {
	ID            int64
	OtherUserID   int64
	OtherUsername string
	OtherEmail    string
	MatchedAt     time.Time
}

// CreateCanonical materializes the match for the unordered pair {a, b}.
// The pair is normalized here and nowhere else. The insert is optimistic:
// ON CONFLICT DO NOTHING turns a lost race with a concurrent resolver into
// a read of the winner's row, so resolving a pair twice never errors and
// never produces a second row.
func (r *MatchRepo) CreateCanonical(ctx context.Context, tx pgx.Tx, userA, userB int64, now time.Time) (MatchRecord, bool, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return MatchRecord{}, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return MatchRecord{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	low, high := model.CanonicalPair(userA, userB)

	var rec MatchRecord
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user_low_id,
	user_high_id,
	matched_at
) VALUES ($1, $2, $3)
ON CONFLICT (user_low_id, user_high_id) DO NOTHING
RETURNING id, user_low_id, user_high_id, matched_at
`, low, high, now.UTC()).Scan(
		&rec.ID,
		&rec.UserLowID,
		&rec.UserHighID,
		&rec.MatchedAt,
	)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return MatchRecord{}, false, fmt.Errorf("create match: %w", err)
	}

	// Lost the race: a concurrent resolver inserted this pair first.
	existing, err := r.getCanonical(ctx, tx, low, high)
	if err != nil {
		return MatchRecord{}, false, err
	}
	return existing, false, nil
}

func (r *MatchRepo) getCanonical(ctx context.Context, tx pgx.Tx, low, high int64) (MatchRecord, error) {
	var rec MatchRecord
	err := tx.QueryRow(ctx, `
SELECT id, user_low_id, user_high_id, matched_at
FROM matches
WHERE user_low_id = $1 AND user_high_id = $2
`, low, high).Scan(
		&rec.ID,
		&rec.UserLowID,
		&rec.UserHighID,
		&rec.MatchedAt,
	)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("get match for pair: %w", err)
	}
	return rec, nil
}

// ListForUser returns the user's matches newest first, each annotated with
// the other participant.
func (r *MatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]UserMatchRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []UserMatchRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	u.id,
	u.username,
	u.email,
	m.matched_at
FROM matches m
JOIN users u ON u.id = CASE WHEN m.user_low_id = $1 THEN m.user_high_id ELSE m.user_low_id END
WHERE m.user_low_id = $1 OR m.user_high_id = $1
ORDER BY m.matched_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]UserMatchRecord, 0, limit)
	for rows.Next() {
		var item UserMatchRecord
		if err := rows.Scan(
			&item.ID,
			&item.OtherUserID,
			&item.OtherUsername,
			&item.OtherEmail,
			&item.MatchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}
