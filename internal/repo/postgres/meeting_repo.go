package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MeetingRepo struct {
	pool *pgxpool.Pool
}

func NewMeetingRepo(pool *pgxpool.Pool) *MeetingRepo {
	return &MeetingRepo{pool: pool}
}

type MeetingRecord struct {
	ID       int64
	UserAID  int64
	UserBID  int64
	Time     time.Time
	Location string
}

func (r *MeetingRepo) Create(ctx context.Context, userA, userB int64, at time.Time, location string) (MeetingRecord, error) {
	if userA <= 0 || userB <= 0 || at.IsZero() {
		return MeetingRecord{}, fmt.Errorf("invalid meeting payload")
	}
	if r.pool == nil {
		return MeetingRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec MeetingRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO meetings (user_a_id, user_b_id, time, location)
VALUES ($1, $2, $3, $4)
RETURNING id, user_a_id, user_b_id, time, location
`, userA, userB, at.UTC(), location).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.Time,
		&rec.Location,
	)
	if err != nil {
		return MeetingRecord{}, fmt.Errorf("create meeting: %w", err)
	}

	return rec, nil
}

func (r *MeetingRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MeetingRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []MeetingRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_a_id, user_b_id, time, location
FROM meetings
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY time ASC, id ASC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	items := make([]MeetingRecord, 0, limit)
	for rows.Next() {
		var rec MeetingRecord
		if err := rows.Scan(&rec.ID, &rec.UserAID, &rec.UserBID, &rec.Time, &rec.Location); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate meetings: %w", rows.Err())
	}

	return items, nil
}

func (r *MeetingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE time < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete stale meetings: %w", err)
	}

	return tag.RowsAffected(), nil
}
