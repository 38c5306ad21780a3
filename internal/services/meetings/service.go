package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrSelfMeeting  = errors.New("cannot schedule a meeting with yourself")
	ErrUserNotFound = errors.New("user not found")
)

type MeetingStore interface {
	Create(ctx context.Context, userA, userB int64, at time.Time, location string) (pgrepo.MeetingRecord, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MeetingRecord, error)
}

type IdentityStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	store      MeetingStore
	identities IdentityStore
}

type Meeting struct {
	ID       int64
	UserAID  int64
	UserBID  int64
	Time     time.Time
	Location string
}

func NewService(store MeetingStore, identities IdentityStore) *Service {
	return &Service{store: store, identities: identities}
}

func (s *Service) Schedule(ctx context.Context, userA, userB int64, at time.Time, location string) (Meeting, error) {
	if userA <= 0 || userB <= 0 || at.IsZero() {
		return Meeting{}, ErrValidation
	}
	if userA == userB {
		return Meeting{}, ErrSelfMeeting
	}
	if s.store == nil || s.identities == nil {
		return Meeting{}, fmt.Errorf("meeting dependencies are not configured")
	}

	for _, userID := range []int64{userA, userB} {
		exists, err := s.identities.Exists(ctx, userID)
		if err != nil {
			return Meeting{}, fmt.Errorf("resolve user %d: %w", userID, err)
		}
		if !exists {
			return Meeting{}, ErrUserNotFound
		}
	}

	rec, err := s.store.Create(ctx, userA, userB, at, location)
	if err != nil {
		return Meeting{}, err
	}

	return fromRecord(rec), nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]Meeting, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil || s.identities == nil {
		return nil, fmt.Errorf("meeting dependencies are not configured")
	}

	exists, err := s.identities.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	rows, err := s.store.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]Meeting, 0, len(rows))
	for _, rec := range rows {
		items = append(items, fromRecord(rec))
	}
	return items, nil
}

func fromRecord(rec pgrepo.MeetingRecord) Meeting {
	return Meeting{
		ID:       rec.ID,
		UserAID:  rec.UserAID,
		UserBID:  rec.UserBID,
		Time:     rec.Time,
		Location: rec.Location,
	}
}
