package postgres

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WyattC-ctrl/StudyBuddy/internal/domain/model"
)

var ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")

const uniqueViolationCode = "23505"

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

type SwipeRecord struct {
	ID           int64
	SwiperUserID int64
	TargetUserID int64
	Status       string
	CreatedAt    time.Time
}

// LockPair serializes every resolver touching the unordered pair for the
// rest of the transaction. Under READ COMMITTED two reciprocal LIKE
// transactions can each run their reciprocity lookup before the other
// commits and both come up empty, leaving the pair mutually liked with no
// match row. The advisory lock makes the second resolver wait until the
// first edge is committed and visible. Released automatically at
// commit/rollback.
func (r *SwipeRepo) LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error {
	if userA <= 0 || userB <= 0 || userA == userB {
		return fmt.Errorf("invalid pair lock payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	low, high := model.CanonicalPair(userA, userB)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pairLockKey(low, high)); err != nil {
		return fmt.Errorf("lock swipe pair: %w", err)
	}

	return nil
}

// A key collision between distinct pairs only over-serializes them.
func pairLockKey(low, high int64) int64 {
	h := fnv.New64a()
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(low))
	binary.BigEndian.PutUint64(buf[8:], uint64(high))
	_, _ = h.Write(buf[:])
	return int64(h.Sum64())
}

// Create inserts the ordered-pair edge. A second insert for the same ordered
// pair trips the swipes_ordered_pair constraint and comes back as
// ErrDuplicateSwipe; the edge is never overwritten.
func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, swiperID, targetID int64, status string, now time.Time) (SwipeRecord, error) {
	if swiperID <= 0 || targetID <= 0 || status == "" {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	swiper_id,
	target_id,
	status,
	created_at
) VALUES ($1, $2, $3, $4)
RETURNING id, swiper_id, target_id, status, created_at
`, swiperID, targetID, status, now.UTC()).Scan(
		&rec.ID,
		&rec.SwiperUserID,
		&rec.TargetUserID,
		&rec.Status,
		&rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return SwipeRecord{}, ErrDuplicateSwipe
		}
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

// HasReciprocalLike reports whether a LIKE edge already exists in the
// opposite direction. Callers hold the pair advisory lock, so any earlier
// resolver for the pair has already committed its edge and the lookup
// sees it.
func (r *SwipeRepo) HasReciprocalLike(ctx context.Context, tx pgx.Tx, swiperID, targetID int64) (bool, error) {
	if swiperID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid reciprocity lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE swiper_id = $1 AND target_id = $2 AND status = 'LIKE'
LIMIT 1
`, targetID, swiperID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}

// ListJudgedTargets returns every target the user has swiped on, any status.
func (r *SwipeRepo) ListJudgedTargets(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_id
FROM swipes
WHERE swiper_id = $1
ORDER BY target_id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list judged targets: %w", err)
	}
	defer rows.Close()

	targets := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan judged target: %w", err)
		}
		targets = append(targets, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate judged targets: %w", rows.Err())
	}

	return targets, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
