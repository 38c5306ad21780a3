package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

type UserStore interface {
	Create(ctx context.Context, username, email string) (pgrepo.UserRecord, error)
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	List(ctx context.Context, limit int) ([]pgrepo.UserRecord, error)
}

type Service struct {
	store UserStore
}

type UserSummary struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, username, email string) (UserSummary, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return UserSummary{}, ErrValidation
	}
	if s.store == nil {
		return UserSummary{}, fmt.Errorf("user store is nil")
	}

	rec, err := s.store.Create(ctx, username, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrDuplicateUser) {
			return UserSummary{}, ErrDuplicateUser
		}
		return UserSummary{}, err
	}

	return summarize(rec), nil
}

func (s *Service) Get(ctx context.Context, userID int64) (UserSummary, error) {
	if userID <= 0 {
		return UserSummary{}, ErrValidation
	}
	if s.store == nil {
		return UserSummary{}, fmt.Errorf("user store is nil")
	}

	rec, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return UserSummary{}, ErrNotFound
		}
		return UserSummary{}, err
	}

	return summarize(rec), nil
}

func (s *Service) List(ctx context.Context, limit int) ([]UserSummary, error) {
	if s.store == nil {
		return nil, fmt.Errorf("user store is nil")
	}

	rows, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]UserSummary, 0, len(rows))
	for _, rec := range rows {
		items = append(items, summarize(rec))
	}
	return items, nil
}

func summarize(rec pgrepo.UserRecord) UserSummary {
	return UserSummary{
		ID:        rec.ID,
		Username:  rec.Username,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
	}
}
