package usecase

import (
	"context"
	"errors"
	"strings"

	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
	mailer "veridia-hiring-backend/pkg/email"
	"veridia-hiring-backend/pkg/logger"
	"veridia-hiring-backend/pkg/security"
	"veridia-hiring-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	userRepo        domain.UserRepository
	files           domain.FileStore
	notifier        domain.Notifier
	validate        *validator.Validate
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	userRepo domain.UserRepository,
	files domain.FileStore,
	notifier domain.Notifier,
	validate *validator.Validate,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		files:           files,
		notifier:        notifier,
		validate:        validate,
	}
}

// Submit runs the application submission workflow: validate the payload,
// enforce the one-application-per-job policy, validate and store the resume,
// persist the record and dispatch a detached confirmation email. Every
// failure happens before any write; a notification failure is invisible to
// the caller.
func (uc *applicationUsecase) Submit(ctx context.Context, candidateID int64, input *domain.SubmitApplicationInput, resume *domain.FileUpload) (*domain.Application, error) {
	// 1. Resolve candidate (identity comes from the session, never the payload)
	candidate, err := uc.userRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	// 2. Required fields: first name, last name, phone
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest("First name, last name and phone are required")
	}
	if input.WorkMode == "" {
		input.WorkMode = domain.DefaultWorkMode
	}

	// 3. Duplicate policy: one application per (candidate, job); a missing
	// job id counts as the candidate's one "general" application
	exists, err := uc.applicationRepo.Exists(ctx, candidateID, input.JobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	// 4. Resolve the job title up front; a dangling job id fails before any write
	var jobTitle string
	if input.JobID != nil {
		job, err := uc.jobRepo.GetByID(ctx, *input.JobID)
		if err != nil {
			return nil, apperror.NotFound("Job not found")
		}
		jobTitle = job.Title
	}

	// 5. Validate and store the resume, if one was attached
	var resumeFile *string
	if resume != nil {
		result := security.ValidateResume(resume.Filename, resume.Size, resume.Data, resume.ContentType)
		if !result.Valid {
			return nil, apperror.BadRequest("Resume rejected: " + result.Error)
		}
		stored, err := uc.files.SaveResume(candidate.Email, resume.Filename, resume.Data)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		resumeFile = &stored
	}

	// 6. Persist with the initial status
	app := &domain.Application{
		CandidateID:     candidateID,
		JobID:           input.JobID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Phone:           input.Phone,
		Location:        input.Location,
		LinkedinProfile: input.LinkedinProfile,
		GithubProfile:   input.GithubProfile,
		PortfolioLink:   input.PortfolioLink,
		Skills:          input.Skills,
		Education:       input.Education,
		Experience:      input.Experience,
		Availability:    input.Availability,
		ExpectedSalary:  input.ExpectedSalary,
		NoticePeriod:    input.NoticePeriod,
		WorkMode:        input.WorkMode,
		ResumeFile:      resumeFile,
		Status:          domain.StatusSubmitted,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}
	if jobTitle != "" {
		app.JobTitle = &jobTitle
	}

	// 7. Applicant counter is advisory; a miss never fails the submission
	if input.JobID != nil {
		if err := uc.jobRepo.IncrementApplicants(ctx, *input.JobID); err != nil {
			logger.Log.Warn("Failed to increment applicant counter", "job_id", *input.JobID, "error", err)
		}
	}

	// 8. Detached confirmation; the submission is already committed
	mailer.Dispatch("application_submitted", func() error {
		return uc.notifier.SendApplicationSubmitted(candidate.Email, app.FirstName, app.LastName, jobTitle)
	})

	return app, nil
}

// GetMyApplications returns all applications for the current candidate
func (uc *applicationUsecase) GetMyApplications(ctx context.Context, candidateID int64) ([]domain.Application, error) {
	apps, err := uc.applicationRepo.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(apps) == 0 {
		return nil, apperror.NotFound("No application found")
	}
	return apps, nil
}

// ListAll returns every application, newest first (admin)
func (uc *applicationUsecase) ListAll(ctx context.Context) ([]domain.Application, error) {
	apps, err := uc.applicationRepo.FetchAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// Search filters applications by candidate name, skills or status (admin).
// The first non-empty predicate wins.
func (uc *applicationUsecase) Search(ctx context.Context, name, skills, status string) ([]domain.Application, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !domain.IsValidStatus(status) {
		return nil, apperror.BadRequest("Unrecognized status: " + status)
	}
	apps, err := uc.applicationRepo.Search(ctx, domain.ApplicationFilter{
		Name:   strings.TrimSpace(name),
		Skills: strings.TrimSpace(skills),
		Status: status,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// UpdateStatus transitions an application along
// SUBMITTED → {SHORTLISTED, REJECTED}, SHORTLISTED → {ACCEPTED, REJECTED}.
// ACCEPTED and REJECTED are terminal. Unrecognized targets fail before the
// application is even looked up.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, applicationID int64, status string) (*domain.Application, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperror.BadRequest("Unrecognized status: " + status)
	}

	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}

	if !domain.CanTransition(app.Status, status) {
		return nil, apperror.BadRequest("Cannot transition application from " + app.Status + " to " + status)
	}

	// Status and updated_at change in one statement
	if err := uc.applicationRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	app.Status = status

	// The write is committed; anything that goes wrong from here on is
	// logged and dropped, never reported to the caller
	jobTitle := ""
	if app.JobTitle != nil {
		jobTitle = *app.JobTitle
	}
	candidate := *app
	mailer.Dispatch("status_update", func() error {
		user, err := uc.userRepo.GetByID(context.Background(), candidate.CandidateID)
		if err != nil {
			return err
		}
		return uc.notifier.SendStatusUpdate(user.Email, candidate.FirstName, candidate.LastName, status, jobTitle)
	})

	return app, nil
}

// GetResume serves a stored resume back through the authenticated endpoint
func (uc *applicationUsecase) GetResume(ctx context.Context, filename string) ([]byte, error) {
	data, err := uc.files.ReadResume(filename)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Internal(err)
	}
	return data, nil
}
