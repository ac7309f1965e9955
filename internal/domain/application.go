package domain

import (
	"context"
	"time"
)

// Application status values
const (
	StatusSubmitted   = "SUBMITTED"
	StatusShortlisted = "SHORTLISTED"
	StatusAccepted    = "ACCEPTED"
	StatusRejected    = "REJECTED"
)

// statusTransitions is the full transition table. ACCEPTED and REJECTED have
// no outgoing edges: they are terminal.
var statusTransitions = map[string][]string{
	StatusSubmitted:   {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusAccepted, StatusRejected},
	StatusAccepted:    {},
	StatusRejected:    {},
}

// IsValidStatus reports whether s is a recognized status value.
func IsValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether the status machine allows from → to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DefaultWorkMode applies when the applicant leaves work mode unset.
const DefaultWorkMode = "remote"

// Application is one candidate's submission of interest, optionally tied to
// a job posting. The job id is a soft reference: the posting may have been
// deleted since.
type Application struct {
	ID              int64     `json:"id"`
	CandidateID     int64     `json:"candidate_id"`
	JobID           *int64    `json:"job_id,omitempty"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location,omitempty"`
	LinkedinProfile string    `json:"linkedin_profile,omitempty"`
	GithubProfile   string    `json:"github_profile,omitempty"`
	PortfolioLink   string    `json:"portfolio_link,omitempty"`
	Skills          string    `json:"skills,omitempty"`
	Education       string    `json:"education,omitempty"`
	Experience      string    `json:"experience,omitempty"`
	Availability    string    `json:"availability,omitempty"`
	ExpectedSalary  string    `json:"expected_salary,omitempty"`
	NoticePeriod    string    `json:"notice_period,omitempty"`
	WorkMode        string    `json:"work_mode"`
	ResumeFile      *string   `json:"resume_file,omitempty"` // immutable once set
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined data for list responses
	JobTitle *string `json:"job_title,omitempty"`
}

// SubmitApplicationInput carries the structured fields of a submission.
// Candidate identity comes from the session, never from the payload.
type SubmitApplicationInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Location        string `json:"location"`
	LinkedinProfile string `json:"linkedin_profile"`
	GithubProfile   string `json:"github_profile"`
	PortfolioLink   string `json:"portfolio_link"`
	Skills          string `json:"skills"`
	Education       string `json:"education"`
	Experience      string `json:"experience"`
	Availability    string `json:"availability"`
	ExpectedSalary  string `json:"expected_salary"`
	NoticePeriod    string `json:"notice_period"`
	WorkMode        string `json:"work_mode"`
	JobID           *int64 `json:"job_id"`
}

// FileUpload is an uploaded file as received from the transport layer.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Data        []byte
}

// ApplicationFilter holds the admin search predicates. The first non-empty
// predicate wins: name, then skills, then status.
type ApplicationFilter struct {
	Name   string
	Skills string
	Status string
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	GetByCandidateID(ctx context.Context, candidateID int64) ([]Application, error)
	Exists(ctx context.Context, candidateID int64, jobID *int64) (bool, error)
	FetchAll(ctx context.Context) ([]Application, error)
	Search(ctx context.Context, filter ApplicationFilter) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type ApplicationUsecase interface {
	// Candidate operations
	Submit(ctx context.Context, candidateID int64, input *SubmitApplicationInput, resume *FileUpload) (*Application, error)
	GetMyApplications(ctx context.Context, candidateID int64) ([]Application, error)

	// Admin operations
	ListAll(ctx context.Context) ([]Application, error)
	Search(ctx context.Context, name, skills, status string) ([]Application, error)
	UpdateStatus(ctx context.Context, applicationID int64, status string) (*Application, error)
	GetResume(ctx context.Context, filename string) ([]byte, error)
}
