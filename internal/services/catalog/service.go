package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("catalog entry not found")
	ErrDuplicateEntry = errors.New("catalog entry already exists")
)

// Kind selects one of the four attribute catalogs.
type Kind string

const (
	KindCourse    Kind = "course"
	KindMajor     Kind = "major"
	KindStudyArea Kind = "study_area"
	KindStudyTime Kind = "study_time"
)

type Store interface {
	CreateCourse(ctx context.Context, code string) (pgrepo.CatalogEntry, error)
	CreateMajor(ctx context.Context, name string) (pgrepo.CatalogEntry, error)
	CreateStudyArea(ctx context.Context, name string) (pgrepo.CatalogEntry, error)
	CreateStudyTime(ctx context.Context, name string) (pgrepo.CatalogEntry, error)
	GetCourse(ctx context.Context, id int64) (pgrepo.CatalogEntry, error)
	GetMajor(ctx context.Context, id int64) (pgrepo.CatalogEntry, error)
	GetStudyArea(ctx context.Context, id int64) (pgrepo.CatalogEntry, error)
	GetStudyTime(ctx context.Context, id int64) (pgrepo.CatalogEntry, error)
	ListCourses(ctx context.Context) ([]pgrepo.CatalogEntry, error)
	ListMajors(ctx context.Context) ([]pgrepo.CatalogEntry, error)
	ListStudyAreas(ctx context.Context) ([]pgrepo.CatalogEntry, error)
	ListStudyTimes(ctx context.Context) ([]pgrepo.CatalogEntry, error)
}

type Service struct {
	store Store
}

type Entry struct {
	ID    int64
	Label string
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, kind Kind, label string) (Entry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Entry{}, ErrValidation
	}
	if s.store == nil {
		return Entry{}, fmt.Errorf("catalog store is nil")
	}

	var (
		rec pgrepo.CatalogEntry
		err error
	)
	switch kind {
	case KindCourse:
		rec, err = s.store.CreateCourse(ctx, label)
	case KindMajor:
		rec, err = s.store.CreateMajor(ctx, label)
	case KindStudyArea:
		rec, err = s.store.CreateStudyArea(ctx, label)
	case KindStudyTime:
		rec, err = s.store.CreateStudyTime(ctx, label)
	default:
		return Entry{}, ErrValidation
	}
	if err != nil {
		if errors.Is(err, pgrepo.ErrDuplicateCatalogEntry) {
			return Entry{}, ErrDuplicateEntry
		}
		return Entry{}, err
	}

	return Entry{ID: rec.ID, Label: rec.Label}, nil
}

func (s *Service) Get(ctx context.Context, kind Kind, id int64) (Entry, error) {
	if id <= 0 {
		return Entry{}, ErrValidation
	}
	if s.store == nil {
		return Entry{}, fmt.Errorf("catalog store is nil")
	}

	var (
		rec pgrepo.CatalogEntry
		err error
	)
	switch kind {
	case KindCourse:
		rec, err = s.store.GetCourse(ctx, id)
	case KindMajor:
		rec, err = s.store.GetMajor(ctx, id)
	case KindStudyArea:
		rec, err = s.store.GetStudyArea(ctx, id)
	case KindStudyTime:
		rec, err = s.store.GetStudyTime(ctx, id)
	default:
		return Entry{}, ErrValidation
	}
	if err != nil {
		if errors.Is(err, pgrepo.ErrCatalogEntryNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}

	return Entry{ID: rec.ID, Label: rec.Label}, nil
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Entry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("catalog store is nil")
	}

	var (
		rows []pgrepo.CatalogEntry
		err  error
	)
	switch kind {
	case KindCourse:
		rows, err = s.store.ListCourses(ctx)
	case KindMajor:
		rows, err = s.store.ListMajors(ctx)
	case KindStudyArea:
		rows, err = s.store.ListStudyAreas(ctx)
	case KindStudyTime:
		rows, err = s.store.ListStudyTimes(ctx)
	default:
		return nil, ErrValidation
	}
	if err != nil {
		return nil, err
	}

	items := make([]Entry, 0, len(rows))
	for _, rec := range rows {
		items = append(items, Entry{ID: rec.ID, Label: rec.Label})
	}
	return items, nil
}
