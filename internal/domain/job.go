package domain

import (
	"context"
	"time"
)

type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Department   string    `json:"department"`
	Location     string    `json:"location"`
	Type         string    `json:"type"`
	Experience   string    `json:"experience"`
	Salary       string    `json:"salary"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Posted       bool      `json:"posted"`
	Applicants   int       `json:"applicants"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JobFilter holds the three independent search predicates, combined with
// logical AND. Empty values (and the "all" sentinel, normalized away by the
// usecase) mean "no restriction".
type JobFilter struct {
	Search   string
	Category string
	Location string
}

// FilterOptions is derived live from current job rows, never cached.
type FilterOptions struct {
	Categories map[string]int `json:"categories"` // per-category counts, "all" holds the total
	Locations  []string       `json:"locations"`  // distinct locations
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context) ([]Job, error)
	FetchFeatured(ctx context.Context) ([]Job, error)
	Search(ctx context.Context, filter JobFilter) ([]Job, error)
	FilterOptions(ctx context.Context) (*FilterOptions, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
	IncrementApplicants(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJobDetails(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context) ([]Job, error)
	ListFeaturedJobs(ctx context.Context) ([]Job, error)
	SearchJobs(ctx context.Context, search, category, location string) ([]Job, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
	UpdateJob(ctx context.Context, job *Job) error
	DeleteJob(ctx context.Context, id int64) error
}
