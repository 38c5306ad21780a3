package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/WyattC-ctrl/StudyBuddy/internal/domain/enums"
	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrSelfSwipe      = errors.New("cannot swipe on yourself")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")
)

type SwipeStore interface {
	LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error
	Create(ctx context.Context, tx pgx.Tx, swiperID, targetID int64, status string, now time.Time) (pgrepo.SwipeRecord, error)
	HasReciprocalLike(ctx context.Context, tx pgx.Tx, swiperID, targetID int64) (bool, error)
}

type MatchStore interface {
	CreateCanonical(ctx context.Context, tx pgx.Tx, userA, userB int64, now time.Time) (pgrepo.MatchRecord, bool, error)
}

type IdentityStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type SuggestionInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

type Service struct {
	runTx       func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	swipeStore  SwipeStore
	matchStore  MatchStore
	identities  IdentityStore
	invalidator SuggestionInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

type Dependencies struct {
	Pool        *pgxpool.Pool
	SwipeStore  SwipeStore
	MatchStore  MatchStore
	Identities  IdentityStore
	Invalidator SuggestionInvalidator
	Logger      *zap.Logger
}

type RecordResult struct {
	Swipe      pgrepo.SwipeRecord
	MatchFound bool
	MatchID    *int64
	MatchedAt  *time.Time
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var runTx func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	if deps.Pool != nil {
		pool := deps.Pool
		runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		}
	}
	return &Service{
		runTx:       runTx,
		swipeStore:  deps.SwipeStore,
		matchStore:  deps.MatchStore,
		identities:  deps.Identities,
		invalidator: deps.Invalidator,
		logger:      log,
		now:         time.Now,
	}
}

// Record persists a directional preference and, when the new status is LIKE,
// resolves the pair. The edge insert, the reciprocity lookup, and the
// canonical match insert run in one transaction: either the edge and any
// resulting match are durable together, or neither is. The transaction
// starts by taking the pair lock so two reciprocal swipes arriving at once
// resolve one after the other instead of both missing the other's
// uncommitted edge.
func (s *Service) Record(ctx context.Context, swiperID, targetID int64, status enums.SwipeStatus) (RecordResult, error) {
	if swiperID <= 0 || targetID <= 0 || !status.Valid() {
		return RecordResult{}, ErrValidation
	}
	if swiperID == targetID {
		return RecordResult{}, ErrSelfSwipe
	}
	if s.runTx == nil || s.swipeStore == nil || s.matchStore == nil || s.identities == nil {
		return RecordResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	// Both identities are checked before any write.
	for _, userID := range []int64{swiperID, targetID} {
		exists, err := s.identities.Exists(ctx, userID)
		if err != nil {
			return RecordResult{}, fmt.Errorf("resolve user %d: %w", userID, err)
		}
		if !exists {
			return RecordResult{}, ErrUserNotFound
		}
	}

	now := s.now().UTC()

	var result RecordResult
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.swipeStore.LockPair(txCtx, tx, swiperID, targetID); err != nil {
			return err
		}

		swipe, err := s.swipeStore.Create(txCtx, tx, swiperID, targetID, string(status), now)
		if err != nil {
			if errors.Is(err, pgrepo.ErrDuplicateSwipe) {
				return ErrDuplicateSwipe
			}
			return err
		}
		result.Swipe = swipe

		if status != enums.SwipeStatusLike {
			return nil
		}

		reciprocal, err := s.swipeStore.HasReciprocalLike(txCtx, tx, swiperID, targetID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		match, created, err := s.matchStore.CreateCanonical(txCtx, tx, swiperID, targetID, now)
		if err != nil {
			return err
		}
		if !created {
			s.logger.Debug("match insert lost race, reusing existing row",
				zap.Int64("user_low_id", match.UserLowID),
				zap.Int64("user_high_id", match.UserHighID),
			)
		}
		matchID := match.ID
		matchedAt := match.MatchedAt
		result.MatchFound = true
		result.MatchID = &matchID
		result.MatchedAt = &matchedAt
		return nil
	}); err != nil {
		return RecordResult{}, err
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, swiperID); err != nil {
			// The ledger write already committed; a stale cache entry
			// expires on its own TTL.
			s.logger.Warn("invalidate suggestion cache", zap.Int64("user_id", swiperID), zap.Error(err))
		}
	}

	return result, nil
}
