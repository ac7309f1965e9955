package usecase

import (
	"context"
	"errors"
	"strings"

	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
)

// sentinel query value meaning "no restriction"
const filterAll = "all"

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) CreateJob(ctx context.Context, job *domain.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *jobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Job not found")
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context) ([]domain.Job, error) {
	jobs, err := u.jobRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

func (u *jobUsecase) ListFeaturedJobs(ctx context.Context) ([]domain.Job, error) {
	jobs, err := u.jobRepo.FetchFeatured(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

// SearchJobs ANDs the three optional predicates. The "all" sentinel (any
// case) and blank values disable a predicate; result order is store order.
func (u *jobUsecase) SearchJobs(ctx context.Context, search, category, location string) ([]domain.Job, error) {
	filter := domain.JobFilter{
		Search:   strings.TrimSpace(search),
		Category: normalizeFilter(category),
		Location: normalizeFilter(location),
	}
	jobs, err := u.jobRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

func (u *jobUsecase) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	opts, err := u.jobRepo.FilterOptions(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return opts, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, job *domain.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	if err := u.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, id int64) error {
	if err := u.jobRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func validateJob(job *domain.Job) error {
	if strings.TrimSpace(job.Title) == "" {
		return apperror.BadRequest("Title is required")
	}
	if strings.TrimSpace(job.Category) == "" {
		return apperror.BadRequest("Category is required")
	}
	if strings.TrimSpace(job.Location) == "" {
		return apperror.BadRequest("Location is required")
	}
	return nil
}

func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, filterAll) {
		return ""
	}
	return v
}
