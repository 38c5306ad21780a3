package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileExists       = errors.New("profile already exists for user")
	ErrCatalogEntryMissing = errors.New("catalog entry not found")
)

type ProfileStore interface {
	Create(ctx context.Context, tx pgx.Tx, userID int64, studyAreaID *int64) (pgrepo.ProfileRecord, error)
	GetByID(ctx context.Context, profileID int64) (pgrepo.ProfileRecord, error)
	List(ctx context.Context, limit int) ([]pgrepo.ProfileRecord, error)
	SetStudyArea(ctx context.Context, tx pgx.Tx, profileID int64, studyAreaID *int64) error
	ReplaceCourses(ctx context.Context, tx pgx.Tx, profileID int64, courseIDs []int64) error
	ReplaceMajors(ctx context.Context, tx pgx.Tx, profileID int64, majorIDs []int64) error
	ReplaceStudyTimes(ctx context.Context, tx pgx.Tx, profileID int64, studyTimeIDs []int64) error
	ListCourseIDs(ctx context.Context, profileID int64) ([]int64, error)
	ListMajorIDs(ctx context.Context, profileID int64) ([]int64, error)
	ListStudyTimeIDs(ctx context.Context, profileID int64) ([]int64, error)
}

type CatalogStore interface {
	GetStudyArea(ctx context.Context, id int64) (pgrepo.CatalogEntry, error)
	LookupCourses(ctx context.Context, ids []int64) ([]pgrepo.CatalogEntry, error)
	LookupMajors(ctx context.Context, ids []int64) ([]pgrepo.CatalogEntry, error)
	LookupStudyTimes(ctx context.Context, ids []int64) ([]pgrepo.CatalogEntry, error)
}

type IdentityStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	runTx      func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	profiles   ProfileStore
	catalog    CatalogStore
	identities IdentityStore
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	Profiles   ProfileStore
	Catalog    CatalogStore
	Identities IdentityStore
}

type Attributes struct {
	StudyAreaID  *int64
	CourseIDs    []int64
	StudyTimeIDs []int64
	MajorIDs     []int64
}

// UpdateAttributes carries partial updates; nil slices and a nil HasStudyArea
// mean "leave unchanged", mirroring the create shape otherwise.
type UpdateAttributes struct {
	HasStudyArea bool
	StudyAreaID  *int64
	CourseIDs    []int64
	StudyTimeIDs []int64
	MajorIDs     []int64
}

type ProfileView struct {
	ID         int64
	UserID     int64
	StudyArea  *pgrepo.CatalogEntry
	Courses    []pgrepo.CatalogEntry
	StudyTimes []pgrepo.CatalogEntry
	Majors     []pgrepo.CatalogEntry
}

func NewService(deps Dependencies) *Service {
	var runTx func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	if deps.Pool != nil {
		pool := deps.Pool
		runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		}
	}
	return &Service{
		runTx:      runTx,
		profiles:   deps.Profiles,
		catalog:    deps.Catalog,
		identities: deps.Identities,
	}
}

func (s *Service) Create(ctx context.Context, userID int64, attrs Attributes) (ProfileView, error) {
	if userID <= 0 {
		return ProfileView{}, ErrValidation
	}
	if s.runTx == nil || s.profiles == nil || s.catalog == nil || s.identities == nil {
		return ProfileView{}, fmt.Errorf("profile dependencies are not configured")
	}

	exists, err := s.identities.Exists(ctx, userID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	if !exists {
		return ProfileView{}, ErrUserNotFound
	}

	if err := s.checkStudyArea(ctx, attrs.StudyAreaID); err != nil {
		return ProfileView{}, err
	}
	if err := s.checkAssociations(ctx, attrs.CourseIDs, attrs.StudyTimeIDs, attrs.MajorIDs); err != nil {
		return ProfileView{}, err
	}

	var rec pgrepo.ProfileRecord
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		created, err := s.profiles.Create(txCtx, tx, userID, attrs.StudyAreaID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrDuplicateProfile) {
				return ErrProfileExists
			}
			return err
		}
		rec = created

		if err := s.profiles.ReplaceCourses(txCtx, tx, rec.ID, attrs.CourseIDs); err != nil {
			return err
		}
		if err := s.profiles.ReplaceStudyTimes(txCtx, tx, rec.ID, attrs.StudyTimeIDs); err != nil {
			return err
		}
		return s.profiles.ReplaceMajors(txCtx, tx, rec.ID, attrs.MajorIDs)
	}); err != nil {
		return ProfileView{}, err
	}

	return s.view(ctx, rec)
}

func (s *Service) Update(ctx context.Context, profileID int64, attrs UpdateAttributes) (ProfileView, error) {
	if profileID <= 0 {
		return ProfileView{}, ErrValidation
	}
	if s.runTx == nil || s.profiles == nil || s.catalog == nil {
		return ProfileView{}, fmt.Errorf("profile dependencies are not configured")
	}

	rec, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return ProfileView{}, ErrProfileNotFound
		}
		return ProfileView{}, err
	}

	if attrs.HasStudyArea {
		if err := s.checkStudyArea(ctx, attrs.StudyAreaID); err != nil {
			return ProfileView{}, err
		}
	}
	if err := s.checkAssociations(ctx, attrs.CourseIDs, attrs.StudyTimeIDs, attrs.MajorIDs); err != nil {
		return ProfileView{}, err
	}

	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if attrs.HasStudyArea {
			if err := s.profiles.SetStudyArea(txCtx, tx, profileID, attrs.StudyAreaID); err != nil {
				return err
			}
			rec.StudyAreaID = attrs.StudyAreaID
		}
		if attrs.CourseIDs != nil {
			if err := s.profiles.ReplaceCourses(txCtx, tx, profileID, attrs.CourseIDs); err != nil {
				return err
			}
		}
		if attrs.StudyTimeIDs != nil {
			if err := s.profiles.ReplaceStudyTimes(txCtx, tx, profileID, attrs.StudyTimeIDs); err != nil {
				return err
			}
		}
		if attrs.MajorIDs != nil {
			if err := s.profiles.ReplaceMajors(txCtx, tx, profileID, attrs.MajorIDs); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return ProfileView{}, err
	}

	return s.view(ctx, rec)
}

func (s *Service) Get(ctx context.Context, profileID int64) (ProfileView, error) {
	if profileID <= 0 {
		return ProfileView{}, ErrValidation
	}
	if s.profiles == nil || s.catalog == nil {
		return ProfileView{}, fmt.Errorf("profile dependencies are not configured")
	}

	rec, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return ProfileView{}, ErrProfileNotFound
		}
		return ProfileView{}, err
	}

	return s.view(ctx, rec)
}

func (s *Service) List(ctx context.Context, limit int) ([]ProfileView, error) {
	if s.profiles == nil || s.catalog == nil {
		return nil, fmt.Errorf("profile dependencies are not configured")
	}

	rows, err := s.profiles.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]ProfileView, 0, len(rows))
	for _, rec := range rows {
		v, err := s.view(ctx, rec)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (s *Service) checkStudyArea(ctx context.Context, studyAreaID *int64) error {
	if studyAreaID == nil {
		return nil
	}
	if _, err := s.catalog.GetStudyArea(ctx, *studyAreaID); err != nil {
		if errors.Is(err, pgrepo.ErrCatalogEntryNotFound) {
			return ErrCatalogEntryMissing
		}
		return err
	}
	return nil
}

func (s *Service) checkAssociations(ctx context.Context, courseIDs, studyTimeIDs, majorIDs []int64) error {
	lookups := []func() error{
		func() error { _, err := s.catalog.LookupCourses(ctx, courseIDs); return err },
		func() error { _, err := s.catalog.LookupStudyTimes(ctx, studyTimeIDs); return err },
		func() error { _, err := s.catalog.LookupMajors(ctx, majorIDs); return err },
	}
	for _, fn := range lookups {
		if err := fn(); err != nil {
			if errors.Is(err, pgrepo.ErrCatalogEntryNotFound) {
				return ErrCatalogEntryMissing
			}
			return err
		}
	}
	return nil
}

func (s *Service) view(ctx context.Context, rec pgrepo.ProfileRecord) (ProfileView, error) {
	v := ProfileView{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Courses:    []pgrepo.CatalogEntry{},
		StudyTimes: []pgrepo.CatalogEntry{},
		Majors:     []pgrepo.CatalogEntry{},
	}

	if rec.StudyAreaID != nil {
		area, err := s.catalog.GetStudyArea(ctx, *rec.StudyAreaID)
		if err != nil && !errors.Is(err, pgrepo.ErrCatalogEntryNotFound) {
			return ProfileView{}, err
		}
		if err == nil {
			v.StudyArea = &area
		}
	}

	courseIDs, err := s.profiles.ListCourseIDs(ctx, rec.ID)
	if err != nil {
		return ProfileView{}, err
	}
	if v.Courses, err = s.catalog.LookupCourses(ctx, courseIDs); err != nil {
		return ProfileView{}, err
	}

	timeIDs, err := s.profiles.ListStudyTimeIDs(ctx, rec.ID)
	if err != nil {
		return ProfileView{}, err
	}
	if v.StudyTimes, err = s.catalog.LookupStudyTimes(ctx, timeIDs); err != nil {
		return ProfileView{}, err
	}

	majorIDs, err := s.profiles.ListMajorIDs(ctx, rec.ID)
	if err != nil {
		return ProfileView{}, err
	}
	if v.Majors, err = s.catalog.LookupMajors(ctx, majorIDs); err != nil {
		return ProfileView{}, err
	}

	return v, nil
}
