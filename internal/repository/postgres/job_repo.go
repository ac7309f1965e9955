package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"veridia-hiring-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `id, title, department, location, type, experience, salary, category, description, requirements, posted, applicants, featured, created_at, updated_at`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Department, &job.Location, &job.Type,
		&job.Experience, &job.Salary, &job.Category, &job.Description,
		&job.Requirements, &job.Posted, &job.Applicants, &job.Featured,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	defer rows.Close()
	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, department, location, type, experience, salary, category, description, requirements, posted, applicants, featured, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	return r.db.QueryRow(ctx, query,
		job.Title, job.Department, job.Location, job.Type, job.Experience,
		job.Salary, job.Category, job.Description, job.Requirements,
		job.Posted, job.Applicants, job.Featured,
		job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.db.QueryRow(ctx, query, id))
}

func (r *jobRepo) Fetch(ctx context.Context) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *jobRepo) FetchFeatured(ctx context.Context) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE featured = true ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// Search combines the three optional predicates with AND. Empty filter
// values mean "no restriction"; the usecase has already normalized the
// "all" sentinels away.
func (r *jobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Location != "" {
		conds = append(conds, "location ILIKE "+arg("%"+filter.Location+"%"))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// FilterOptions derives the distinct category counts and location set from
// the current job rows on every call.
func (r *jobRepo) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts := &domain.FilterOptions{
		Categories: map[string]int{},
	}

	rows, err := r.db.Query(ctx, `SELECT category, COUNT(*) FROM jobs GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		opts.Categories[category] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	opts.Categories["all"] = total

	locRows, err := r.db.Query(ctx, `SELECT DISTINCT location FROM jobs ORDER BY location`)
	if err != nil {
		return nil, err
	}
	defer locRows.Close()

	for locRows.Next() {
		var location string
		if err := locRows.Scan(&location); err != nil {
			return nil, err
		}
		opts.Locations = append(opts.Locations, location)
	}
	return opts, locRows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET
		title = $2,
		department = $3,
		location = $4,
		type = $5,
		experience = $6,
		salary = $7,
		category = $8,
		description = $9,
		requirements = $10,
		posted = $11,
		featured = $12,
		updated_at = $13
	WHERE id = $1`

	job.UpdatedAt = time.Now()
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Department, job.Location, job.Type,
		job.Experience, job.Salary, job.Category, job.Description,
		job.Requirements, job.Posted, job.Featured, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) IncrementApplicants(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE jobs SET applicants = applicants + 1, updated_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
