package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("profile already exists for user")
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

type ProfileRecord struct {
	ID          int64
	UserID      int64
	StudyAreaID *int64
}

func (r *ProfileRepo) Create(ctx context.Context, tx pgx.Tx, userID int64, studyAreaID *int64) (ProfileRecord, error) {
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile payload")
	}
	if tx == nil {
		return ProfileRecord{}, fmt.Errorf("transaction is required")
	}

	var rec ProfileRecord
	err := tx.QueryRow(ctx, `
INSERT INTO profiles (user_id, study_area_id)
VALUES ($1, $2)
RETURNING id, user_id, study_area_id
`, userID, studyAreaID).Scan(&rec.ID, &rec.UserID, &rec.StudyAreaID)
	if err != nil {
		if isUniqueViolation(err) {
			return ProfileRecord{}, ErrDuplicateProfile
		}
		return ProfileRecord{}, fmt.Errorf("create profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, profileID int64) (ProfileRecord, error) {
	if profileID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, study_area_id
FROM profiles
WHERE id = $1
`, profileID).Scan(&rec.ID, &rec.UserID, &rec.StudyAreaID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) List(ctx context.Context, limit int) ([]ProfileRecord, error) {
	if limit <= 0 {
		limit = 200
	}
	if r.pool == nil {
		return []ProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, study_area_id
FROM profiles
ORDER BY id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRecord, 0, limit)
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.StudyAreaID); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return items, nil
}

func (r *ProfileRepo) SetStudyArea(ctx context.Context, tx pgx.Tx, profileID int64, studyAreaID *int64) error {
	if profileID <= 0 {
		return fmt.Errorf("invalid profile id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE profiles
SET study_area_id = $2
WHERE id = $1
`, profileID, studyAreaID)
	if err != nil {
		return fmt.Errorf("set profile study area: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ReplaceCourses rewrites the profile_courses relation set for the profile.
func (r *ProfileRepo) ReplaceCourses(ctx context.Context, tx pgx.Tx, profileID int64, courseIDs []int64) error {
	return r.replaceRelation(ctx, tx, profileID, "profile_courses", "course_id", courseIDs)
}

func (r *ProfileRepo) ReplaceMajors(ctx context.Context, tx pgx.Tx, profileID int64, majorIDs []int64) error {
	return r.replaceRelation(ctx, tx, profileID, "profile_majors", "major_id", majorIDs)
}

func (r *ProfileRepo) ReplaceStudyTimes(ctx context.Context, tx pgx.Tx, profileID int64, studyTimeIDs []int64) error {
	return r.replaceRelation(ctx, tx, profileID, "profile_study_times", "study_time_id", studyTimeIDs)
}

func (r *ProfileRepo) replaceRelation(ctx context.Context, tx pgx.Tx, profileID int64, table, column string, ids []int64) error {
	if profileID <= 0 {
		return fmt.Errorf("invalid profile id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
DELETE FROM %s
WHERE profile_id = $1
`, table), profileID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	for _, id := range ids {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
INSERT INTO %s (profile_id, %s)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, table, column), profileID, id); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return nil
}

func (r *ProfileRepo) ListCourseIDs(ctx context.Context, profileID int64) ([]int64, error) {
	return r.listRelation(ctx, profileID, "profile_courses", "course_id")
}

func (r *ProfileRepo) ListMajorIDs(ctx context.Context, profileID int64) ([]int64, error) {
	return r.listRelation(ctx, profileID, "profile_majors", "major_id")
}

func (r *ProfileRepo) ListStudyTimeIDs(ctx context.Context, profileID int64) ([]int64, error) {
	return r.listRelation(ctx, profileID, "profile_study_times", "study_time_id")
}

func (r *ProfileRepo) listRelation(ctx context.Context, profileID int64, table, column string) ([]int64, error) {
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
SELECT %s
FROM %s
WHERE profile_id = $1
ORDER BY %s ASC
`, column, table, column), profileID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, rows.Err())
	}

	return ids, nil
}
