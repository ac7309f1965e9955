package postgres

import (
	"context"
	"time"

	"veridia-hiring-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `
	a.id, a.candidate_id, a.job_id, a.first_name, a.last_name, a.phone,
	a.location, a.linkedin_profile, a.github_profile, a.portfolio_link,
	a.skills, a.education, a.experience, a.availability, a.expected_salary,
	a.notice_period, a.work_mode, a.resume_file, a.status,
	a.created_at, a.updated_at,
	j.title as job_title`

// applications joined against jobs; the job may have been deleted since
// submission, hence LEFT JOIN and a nullable title.
const applicationSelect = `
	SELECT ` + applicationColumns + `
	FROM applications a
	LEFT JOIN jobs j ON a.job_id = j.id`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.CandidateID, &app.JobID, &app.FirstName, &app.LastName,
		&app.Phone, &app.Location, &app.LinkedinProfile, &app.GithubProfile,
		&app.PortfolioLink, &app.Skills, &app.Education, &app.Experience,
		&app.Availability, &app.ExpectedSalary, &app.NoticePeriod,
		&app.WorkMode, &app.ResumeFile, &app.Status,
		&app.CreatedAt, &app.UpdatedAt,
		&app.JobTitle,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func collectApplications(rows pgx.Rows) ([]domain.Application, error) {
	defer rows.Close()
	var applications []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (candidate_id, job_id, first_name, last_name, phone,
			location, linkedin_profile, github_profile, portfolio_link,
			skills, education, experience, availability, expected_salary,
			notice_period, work_mode, resume_file, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusSubmitted
	}

	return r.db.QueryRow(ctx, query,
		app.CandidateID, app.JobID, app.FirstName, app.LastName, app.Phone,
		app.Location, app.LinkedinProfile, app.GithubProfile, app.PortfolioLink,
		app.Skills, app.Education, app.Experience, app.Availability,
		app.ExpectedSalary, app.NoticePeriod, app.WorkMode, app.ResumeFile,
		app.Status, app.CreatedAt, app.UpdatedAt,
	).Scan(&app.ID)
}

// GetByID retrieves an application by ID with the joined job title
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

// GetByCandidateID retrieves all applications submitted by a candidate
func (r *applicationRepo) GetByCandidateID(ctx context.Context, candidateID int64) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.candidate_id = $1 ORDER BY a.created_at DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

// Exists checks whether the candidate already applied to this job. A nil
// job id matches the candidate's "general" application (job_id IS NULL).
func (r *applicationRepo) Exists(ctx context.Context, candidateID int64, jobID *int64) (bool, error) {
	var (
		query = `SELECT EXISTS(SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id IS NULL)`
		args  = []interface{}{candidateID}
	)
	if jobID != nil {
		query = `SELECT EXISTS(SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id = $2)`
		args = append(args, *jobID)
	}
	var exists bool
	err := r.db.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// FetchAll retrieves every application, newest first
func (r *applicationRepo) FetchAll(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

// Search applies the admin filter. Predicate precedence mirrors the
// workflow contract: name, then skills, then status; first non-empty wins.
func (r *applicationRepo) Search(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error) {
	var (
		cond string
		args []interface{}
	)
	switch {
	case filter.Name != "":
		cond = ` WHERE (a.first_name || ' ' || a.last_name) ILIKE $1`
		args = []interface{}{"%" + filter.Name + "%"}
	case filter.Skills != "":
		cond = ` WHERE a.skills ILIKE $1`
		args = []interface{}{"%" + filter.Skills + "%"}
	case filter.Status != "":
		cond = ` WHERE a.status = $1`
		args = []interface{}{filter.Status}
	}

	rows, err := r.db.Query(ctx, applicationSelect+cond+` ORDER BY a.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

// UpdateStatus overwrites the status and stamps updated_at in one statement
func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
