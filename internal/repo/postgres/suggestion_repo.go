package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SuggestionRepo struct {
	pool *pgxpool.Pool
}

func NewSuggestionRepo(pool *pgxpool.Pool) *SuggestionRepo {
	return &SuggestionRepo{pool: pool}
}

// ListCandidates computes the candidate set as a set difference in one
// query: every user except the viewer and except any target the viewer has
// already judged, any status. Ascending id keeps repeated calls with
// unchanged state byte-identical.
func (r *SuggestionRepo) ListCandidates(ctx context.Context, userID int64, limit int) ([]UserRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 200
	}
	if r.pool == nil {
		return []UserRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT u.id, u.username, u.email, u.created_at
FROM users u
WHERE
	u.id <> $1
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.swiper_id = $1 AND s.target_id = u.id
	)
ORDER BY u.id ASC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := make([]UserRecord, 0, limit)
	for rows.Next() {
		var rec UserRecord
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.Email, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}
