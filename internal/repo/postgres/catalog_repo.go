package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCatalogEntryNotFound  = errors.New("catalog entry not found")
	ErrDuplicateCatalogEntry = errors.New("catalog entry already exists")
)

// CatalogRepo stores the four attribute catalogs (courses, majors, study
// areas, study times). All four share the same shape: id plus a unique
// label column.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

type CatalogEntry struct {
	ID    int64
	Label string
}

type catalogTable struct {
	table string
	label string
}

var (
	coursesTable    = catalogTable{table: "courses", label: "code"}
	majorsTable     = catalogTable{table: "majors", label: "name"}
	studyAreasTable = catalogTable{table: "study_areas", label: "name"}
	studyTimesTable = catalogTable{table: "study_times", label: "name"}
)

func (r *CatalogRepo) CreateCourse(ctx context.Context, code string) (CatalogEntry, error) {
	return r.create(ctx, coursesTable, code)
}

func (r *CatalogRepo) CreateMajor(ctx context.Context, name string) (CatalogEntry, error) {
	return r.create(ctx, majorsTable, name)
}

func (r *CatalogRepo) CreateStudyArea(ctx context.Context, name string) (CatalogEntry, error) {
	return r.create(ctx, studyAreasTable, name)
}

func (r *CatalogRepo) CreateStudyTime(ctx context.Context, name string) (CatalogEntry, error) {
	return r.create(ctx, studyTimesTable, name)
}

func (r *CatalogRepo) GetCourse(ctx context.Context, id int64) (CatalogEntry, error) {
	return r.get(ctx, coursesTable, id)
}

func (r *CatalogRepo) GetMajor(ctx context.Context, id int64) (CatalogEntry, error) {
	return r.get(ctx, majorsTable, id)
}

func (r *CatalogRepo) GetStudyArea(ctx context.Context, id int64) (CatalogEntry, error) {
	return r.get(ctx, studyAreasTable, id)
}

func (r *CatalogRepo) GetStudyTime(ctx context.Context, id int64) (CatalogEntry, error) {
	return r.get(ctx, studyTimesTable, id)
}

func (r *CatalogRepo) ListCourses(ctx context.Context) ([]CatalogEntry, error) {
	return r.list(ctx, coursesTable)
}

func (r *CatalogRepo) ListMajors(ctx context.Context) ([]CatalogEntry, error) {
	return r.list(ctx, majorsTable)
}

func (r *CatalogRepo) ListStudyAreas(ctx context.Context) ([]CatalogEntry, error) {
	return r.list(ctx, studyAreasTable)
}

func (r *CatalogRepo) ListStudyTimes(ctx context.Context) ([]CatalogEntry, error) {
	return r.list(ctx, studyTimesTable)
}

// LookupCourses resolves an id list in the caller's order. Any missing id
// fails the whole lookup.
func (r *CatalogRepo) LookupCourses(ctx context.Context, ids []int64) ([]CatalogEntry, error) {
	return r.lookup(ctx, coursesTable, ids)
}

func (r *CatalogRepo) LookupMajors(ctx context.Context, ids []int64) ([]CatalogEntry, error) {
	return r.lookup(ctx, majorsTable, ids)
}

func (r *CatalogRepo) LookupStudyTimes(ctx context.Context, ids []int64) ([]CatalogEntry, error) {
	return r.lookup(ctx, studyTimesTable, ids)
}

func (r *CatalogRepo) create(ctx context.Context, t catalogTable, label string) (CatalogEntry, error) {
	if label == "" {
		return CatalogEntry{}, fmt.Errorf("invalid catalog payload")
	}
	if r.pool == nil {
		return CatalogEntry{}, fmt.Errorf("postgres pool is nil")
	}

	var entry CatalogEntry
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
INSERT INTO %s (%s)
VALUES ($1)
RETURNING id, %s
`, t.table, t.label, t.label), label).Scan(&entry.ID, &entry.Label)
	if err != nil {
		if isUniqueViolation(err) {
			return CatalogEntry{}, ErrDuplicateCatalogEntry
		}
		return CatalogEntry{}, fmt.Errorf("create %s entry: %w", t.table, err)
	}

	return entry, nil
}

func (r *CatalogRepo) get(ctx context.Context, t catalogTable, id int64) (CatalogEntry, error) {
	if id <= 0 {
		return CatalogEntry{}, fmt.Errorf("invalid catalog id")
	}
	if r.pool == nil {
		return CatalogEntry{}, ErrCatalogEntryNotFound
	}

	var entry CatalogEntry
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
SELECT id, %s
FROM %s
WHERE id = $1
`, t.label, t.table), id).Scan(&entry.ID, &entry.Label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogEntry{}, ErrCatalogEntryNotFound
		}
		return CatalogEntry{}, fmt.Errorf("get %s entry: %w", t.table, err)
	}

	return entry, nil
}

func (r *CatalogRepo) list(ctx context.Context, t catalogTable) ([]CatalogEntry, error) {
	if r.pool == nil {
		return []CatalogEntry{}, nil
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
SELECT id, %s
FROM %s
ORDER BY id ASC
`, t.label, t.table))
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", t.table, err)
	}
	defer rows.Close()

	items := make([]CatalogEntry, 0)
	for rows.Next() {
		var entry CatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Label); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", t.table, err)
		}
		items = append(items, entry)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %s entries: %w", t.table, rows.Err())
	}

	return items, nil
}

func (r *CatalogRepo) lookup(ctx context.Context, t catalogTable, ids []int64) ([]CatalogEntry, error) {
	if len(ids) == 0 {
		return []CatalogEntry{}, nil
	}
	if r.pool == nil {
		return nil, ErrCatalogEntryNotFound
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
SELECT id, %s
FROM %s
WHERE id = ANY($1)
ORDER BY id ASC
`, t.label, t.table), ids)
	if err != nil {
		return nil, fmt.Errorf("lookup %s entries: %w", t.table, err)
	}
	defer rows.Close()

	found := make(map[int64]CatalogEntry, len(ids))
	for rows.Next() {
		var entry CatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Label); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", t.table, err)
		}
		found[entry.ID] = entry
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %s entries: %w", t.table, rows.Err())
	}

	items := make([]CatalogEntry, 0, len(ids))
	for _, id := range ids {
		entry, ok := found[id]
		if !ok {
			return nil, ErrCatalogEntryNotFound
		}
		items = append(items, entry)
	}

	return items, nil
}
