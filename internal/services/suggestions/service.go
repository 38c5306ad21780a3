package suggestions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
	redrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/redis"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
)

type CandidateStore interface {
	ListCandidates(ctx context.Context, userID int64, limit int) ([]pgrepo.UserRecord, error)
}

type IdentityStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, userID int64) ([]redrepo.CachedCandidate, bool, error)
	Set(ctx context.Context, userID int64, items []redrepo.CachedCandidate) error
}

type Service struct {
	candidates CandidateStore
	identities IdentityStore
	cache      Cache
	logger     *zap.Logger
	limit      int
}

type Candidate struct {
	UserID   int64
	Username string
	Email    string
}

func NewService(candidates CandidateStore, identities IdentityStore, cache Cache, logger *zap.Logger, limit int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = 200
	}
	return &Service{
		candidates: candidates,
		identities: identities,
		cache:      cache,
		logger:     logger,
		limit:      limit,
	}
}

// List returns every user the viewer has not judged yet, ascending by id.
// The redis cache is consulted first; cache failures degrade to the
// Postgres query rather than failing the request.
func (s *Service) List(ctx context.Context, userID int64) ([]Candidate, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.candidates == nil || s.identities == nil {
		return nil, fmt.Errorf("suggestion dependencies are not configured")
	}

	exists, err := s.identities.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("read suggestion cache", zap.Int64("user_id", userID), zap.Error(err))
		} else if hit {
			items := make([]Candidate, 0, len(cached))
			for _, c := range cached {
				items = append(items, Candidate{UserID: c.ID, Username: c.Username, Email: c.Email})
			}
			return items, nil
		}
	}

	rows, err := s.candidates.ListCandidates(ctx, userID, s.limit)
	if err != nil {
		return nil, err
	}

	items := make([]Candidate, 0, len(rows))
	cacheItems := make([]redrepo.CachedCandidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, Candidate{UserID: row.ID, Username: row.Username, Email: row.Email})
		cacheItems = append(cacheItems, redrepo.CachedCandidate{ID: row.ID, Username: row.Username, Email: row.Email})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, cacheItems); err != nil {
			s.logger.Warn("write suggestion cache", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return items, nil
}
