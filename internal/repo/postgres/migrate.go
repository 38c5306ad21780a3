package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema invariants enforced at the storage layer rather than in code:
// swipes carries a unique index on the ordered (swiper_id, target_id) pair,
// matches carries a unique index on the canonical pair plus a check that
// user_low_id < user_high_id. These constraints make duplicate edges and
// duplicate match rows impossible; the complementary hazard, two reciprocal
// LIKE transactions each missing the other's uncommitted edge, is handled
// by the pair advisory lock the swipe path takes before inserting.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGSERIAL PRIMARY KEY,
		code TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS majors (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS study_areas (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS study_times (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
		study_area_id BIGINT REFERENCES study_areas(id)
	)`,
	`CREATE TABLE IF NOT EXISTS profile_courses (
		profile_id BIGINT NOT NULL REFERENCES profiles(id),
		course_id BIGINT NOT NULL REFERENCES courses(id),
		PRIMARY KEY (profile_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profile_majors (
		profile_id BIGINT NOT NULL REFERENCES profiles(id),
		major_id BIGINT NOT NULL REFERENCES majors(id),
		PRIMARY KEY (profile_id, major_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profile_study_times (
		profile_id BIGINT NOT NULL REFERENCES profiles(id),
		study_time_id BIGINT NOT NULL REFERENCES study_times(id),
		PRIMARY KEY (profile_id, study_time_id)
	)`,
	`CREATE TABLE IF NOT EXISTS swipes (
		id BIGSERIAL PRIMARY KEY,
		swiper_id BIGINT NOT NULL REFERENCES users(id),
		target_id BIGINT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL CHECK (status IN ('LIKE', 'DISLIKE')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT swipes_no_self CHECK (swiper_id <> target_id),
		CONSTRAINT swipes_ordered_pair UNIQUE (swiper_id, target_id)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGSERIAL PRIMARY KEY,
		user_low_id BIGINT NOT NULL REFERENCES users(id),
		user_high_id BIGINT NOT NULL REFERENCES users(id),
		matched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT matches_canonical_order CHECK (user_low_id < user_high_id),
		CONSTRAINT matches_pair UNIQUE (user_low_id, user_high_id)
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id BIGSERIAL PRIMARY KEY,
		user_a_id BIGINT NOT NULL REFERENCES users(id),
		user_b_id BIGINT NOT NULL REFERENCES users(id),
		time TIMESTAMPTZ NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		CONSTRAINT meetings_no_self CHECK (user_a_id <> user_b_id)
	)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return nil
}
