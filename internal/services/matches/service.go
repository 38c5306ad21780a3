package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
)

type MatchStore interface {
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.UserMatchRecord, error)
}

type IdentityStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	matchStore MatchStore
	identities IdentityStore
}

type MatchItem struct {
	ID            int64
	OtherUserID   int64
	OtherUsername string
	OtherEmail    string
	MatchedAt     time.Time
}

func NewService(matchStore MatchStore, identities IdentityStore) *Service {
	return &Service{matchStore: matchStore, identities: identities}
}

// List returns the user's finalized matches, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil || s.identities == nil {
		return nil, fmt.Errorf("match dependencies are not configured")
	}

	exists, err := s.identities.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	rows, err := s.matchStore.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:            row.ID,
			OtherUserID:   row.OtherUserID,
			OtherUsername: row.OtherUsername,
			OtherEmail:    row.OtherEmail,
			MatchedAt:     row.MatchedAt,
		})
	}
	return items, nil
}
