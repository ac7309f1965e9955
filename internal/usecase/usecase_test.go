package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/internal/usecase"
	"veridia-hiring-backend/pkg/apperror"
	"veridia-hiring-backend/pkg/hash"
	"veridia-hiring-backend/pkg/logger"
	"veridia-hiring-backend/pkg/storage"
	"veridia-hiring-backend/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *MockUserRepo) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	return m.Called(ctx, id, photo).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetByCandidateID(ctx context.Context, candidateID int64) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Exists(ctx context.Context, candidateID int64, jobID *int64) (bool, error) {
	args := m.Called(ctx, candidateID, jobID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) FetchAll(ctx context.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Search(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Fetch(ctx context.Context) ([]domain.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) FetchFeatured(ctx context.Context) ([]domain.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterOptions), args.Error(1)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockJobRepo) IncrementApplicants(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockResetTokenRepo struct {
	mock.Mock
}

func (m *MockResetTokenRepo) Create(ctx context.Context, t *domain.ResetToken) error {
	return m.Called(ctx, t).Error(0)
}
func (m *MockResetTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*domain.ResetToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResetToken), args.Error(1)
}
func (m *MockResetTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// stubNotifier records sends without testify's call matching: notifications
// are dispatched from detached goroutines, so assertions on them would race.
type stubNotifier struct {
	mu   sync.Mutex
	fail bool
	sent []string
}

func (s *stubNotifier) record(event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, event)
	if s.fail {
		return errors.New("smtp unreachable")
	}
	return nil
}
func (s *stubNotifier) SendWelcome(toEmail, name string) error { return s.record("welcome") }
func (s *stubNotifier) SendApplicationSubmitted(toEmail, firstName, lastName, jobTitle string) error {
	return s.record("submitted")
}
func (s *stubNotifier) SendStatusUpdate(toEmail, firstName, lastName, status, jobTitle string) error {
	return s.record("status")
}
func (s *stubNotifier) SendPasswordReset(toEmail, name, resetToken string) error {
	return s.record("reset")
}

// stubFileStore keeps saved files in memory.
type stubFileStore struct {
	mu      sync.Mutex
	resumes map[string][]byte
	photos  map[string][]byte
	saveErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{resumes: map[string][]byte{}, photos: map[string][]byte{}}
}

func (s *stubFileStore) SaveResume(ownerEmail, originalName string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := ownerEmail + "_" + originalName
	s.resumes[name] = data
	return name, nil
}
func (s *stubFileStore) ReadResume(filename string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.resumes[filename]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return data, nil
}
func (s *stubFileStore) SavePhoto(ownerEmail, originalName string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := ownerEmail + "_" + originalName
	s.photos[name] = data
	return name, nil
}
func (s *stubFileStore) ReadPhoto(filename string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.photos[filename]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return data, nil
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func newApplicationUC(appRepo *MockApplicationRepo, jobRepo *MockJobRepo, userRepo *MockUserRepo, files domain.FileStore, notifier domain.Notifier) domain.ApplicationUsecase {
	return usecase.NewApplicationUsecase(appRepo, jobRepo, userRepo, files, notifier, validator.New())
}

func validSubmitInput(jobID *int64) *domain.SubmitApplicationInput {
	return &domain.SubmitApplicationInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+44 20 7946 0958",
		Skills:    "Go, SQL",
		JobID:     jobID,
	}
}

// %PDF-1.4 magic so the resume passes content sniffing
func pdfUpload(name string, size int64) *domain.FileUpload {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x20}, 64)...)
	return &domain.FileUpload{Filename: name, Size: size, ContentType: "application/pdf", Data: data}
}

func TestSubmitValidation(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	jobRepo := new(MockJobRepo)
	userRepo := new(MockUserRepo)
	uc := newApplicationUC(appRepo, jobRepo, userRepo, newStubFileStore(), &stubNotifier{})

	userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)

	t.Run("Should fail when required fields are missing", func(t *testing.T) {
		input := validSubmitInput(nil)
		input.Phone = ""
		_, err := uc.Submit(context.Background(), 7, input, nil)
		assert.Error(t, err)
		assert.Equal(t, 400, appCode(t, err))
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should fail for an unknown candidate", func(t *testing.T) {
		userRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)
		_, err := uc.Submit(context.Background(), 99, validSubmitInput(nil), nil)
		assert.Error(t, err)
		assert.Equal(t, 404, appCode(t, err))
	})
}

func TestSubmitDuplicatePolicy(t *testing.T) {
	jobID := int64(3)

	t.Run("Should reject a second application to the same job", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		userRepo := new(MockUserRepo)
		uc := newApplicationUC(appRepo, jobRepo, userRepo, newStubFileStore(), &stubNotifier{})

		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		appRepo.On("Exists", mock.Anything, int64(7), &jobID).Return(true, nil)

		_, err := uc.Submit(context.Background(), 7, validSubmitInput(&jobID), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should treat a missing job id as its own bucket", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		userRepo := new(MockUserRepo)
		uc := newApplicationUC(appRepo, jobRepo, userRepo, newStubFileStore(), &stubNotifier{})

		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		appRepo.On("Exists", mock.Anything, int64(7), (*int64)(nil)).Return(true, nil)

		_, err := uc.Submit(context.Background(), 7, validSubmitInput(nil), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
	})
}

func TestSubmitResumeRules(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)

	t.Run("Should reject an oversized resume", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := newApplicationUC(appRepo, new(MockJobRepo), userRepo, newStubFileStore(), &stubNotifier{})
		appRepo.On("Exists", mock.Anything, int64(7), (*int64)(nil)).Return(false, nil)

		resume := pdfUpload("cv.pdf", 11<<20)
		_, err := uc.Submit(context.Background(), 7, validSubmitInput(nil), resume)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Resume rejected")
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should reject a disallowed extension", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := newApplicationUC(appRepo, new(MockJobRepo), userRepo, newStubFileStore(), &stubNotifier{})
		appRepo.On("Exists", mock.Anything, int64(7), (*int64)(nil)).Return(false, nil)

		resume := &domain.FileUpload{Filename: "cv.exe", Size: 100, ContentType: "application/pdf", Data: []byte("MZ....")}
		_, err := uc.Submit(context.Background(), 7, validSubmitInput(nil), resume)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Resume rejected")
	})

	t.Run("Should store a valid resume and keep the reference", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		files := newStubFileStore()
		uc := newApplicationUC(appRepo, new(MockJobRepo), userRepo, files, &stubNotifier{})
		appRepo.On("Exists", mock.Anything, int64(7), (*int64)(nil)).Return(false, nil)
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)

		app, err := uc.Submit(context.Background(), 7, validSubmitInput(nil), pdfUpload("cv.pdf", 100))
		assert.NoError(t, err)
		assert.NotNil(t, app.ResumeFile)
		_, readErr := files.ReadResume(*app.ResumeFile)
		assert.NoError(t, readErr)
	})
}

func TestSubmitDefaultsAndCounter(t *testing.T) {
	jobID := int64(3)

	t.Run("Should default work mode and start in SUBMITTED", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		userRepo := new(MockUserRepo)
		uc := newApplicationUC(appRepo, jobRepo, userRepo, newStubFileStore(), &stubNotifier{})

		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		appRepo.On("Exists", mock.Anything, int64(7), &jobID).Return(false, nil)
		jobRepo.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, Title: "Backend Engineer"}, nil)
		jobRepo.On("IncrementApplicants", mock.Anything, jobID).Return(nil)
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil).Run(func(args mock.Arguments) {
			app := args.Get(1).(*domain.Application)
			assert.Equal(t, domain.StatusSubmitted, app.Status)
			assert.Equal(t, domain.DefaultWorkMode, app.WorkMode)
			assert.Equal(t, int64(7), app.CandidateID)
		})

		app, err := uc.Submit(context.Background(), 7, validSubmitInput(&jobID), nil)
		assert.NoError(t, err)
		assert.NotNil(t, app.JobTitle)
		assert.Equal(t, "Backend Engineer", *app.JobTitle)
		jobRepo.AssertCalled(t, "IncrementApplicants", mock.Anything, jobID)
	})

	t.Run("Should fail before any write for a dangling job id", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		userRepo := new(MockUserRepo)
		uc := newApplicationUC(appRepo, jobRepo, userRepo, newStubFileStore(), &stubNotifier{})

		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		appRepo.On("Exists", mock.Anything, int64(7), &jobID).Return(false, nil)
		jobRepo.On("GetByID", mock.Anything, jobID).Return(nil, domain.ErrNotFound)

		_, err := uc.Submit(context.Background(), 7, validSubmitInput(&jobID), nil)
		assert.Error(t, err)
		assert.Equal(t, 404, appCode(t, err))
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should succeed even when the counter update fails", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		userRepo := new(MockUserRepo)
		uc := newApplicationUC(appRepo, jobRepo, userRepo, newStubFileStore(), &stubNotifier{})

		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		appRepo.On("Exists", mock.Anything, int64(7), &jobID).Return(false, nil)
		jobRepo.On("GetByID", mock.Anything, jobID).Return(&domain.Job{ID: jobID, Title: "Backend Engineer"}, nil)
		jobRepo.On("IncrementApplicants", mock.Anything, jobID).Return(errors.New("row gone"))
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)

		_, err := uc.Submit(context.Background(), 7, validSubmitInput(&jobID), nil)
		assert.NoError(t, err)
	})

	t.Run("Should not surface a notification failure", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		userRepo := new(MockUserRepo)
		uc := newApplicationUC(appRepo, new(MockJobRepo), userRepo, newStubFileStore(), &stubNotifier{fail: true})

		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		appRepo.On("Exists", mock.Anything, int64(7), (*int64)(nil)).Return(false, nil)
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)

		_, err := uc.Submit(context.Background(), 7, validSubmitInput(nil), nil)
		assert.NoError(t, err)
	})
}

func TestGetMyApplications(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	uc := newApplicationUC(appRepo, new(MockJobRepo), new(MockUserRepo), newStubFileStore(), &stubNotifier{})

	t.Run("Should return 404 when the candidate has no applications", func(t *testing.T) {
		appRepo.On("GetByCandidateID", mock.Anything, int64(7)).Return([]domain.Application{}, nil)
		_, err := uc.GetMyApplications(context.Background(), 7)
		assert.Error(t, err)
		assert.Equal(t, 404, appCode(t, err))
	})
}

func TestUpdateStatusTransitions(t *testing.T) {
	newUC := func(current string) (domain.ApplicationUsecase, *MockApplicationRepo) {
		appRepo := new(MockApplicationRepo)
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil).Maybe()
		appRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Application{ID: 1, CandidateID: 7, Status: current}, nil)
		appRepo.On("UpdateStatus", mock.Anything, int64(1), mock.Anything).Return(nil)
		return newApplicationUC(appRepo, new(MockJobRepo), userRepo, newStubFileStore(), &stubNotifier{}), appRepo
	}

	t.Run("Should reject an unrecognized status before the lookup", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := newApplicationUC(appRepo, new(MockJobRepo), new(MockUserRepo), newStubFileStore(), &stubNotifier{})
		_, err := uc.UpdateStatus(context.Background(), 1, "BOGUS")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unrecognized status")
		appRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Should allow SUBMITTED to SHORTLISTED", func(t *testing.T) {
		uc, _ := newUC(domain.StatusSubmitted)
		app, err := uc.UpdateStatus(context.Background(), 1, domain.StatusShortlisted)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusShortlisted, app.Status)
	})

	t.Run("Should allow SHORTLISTED to ACCEPTED", func(t *testing.T) {
		uc, _ := newUC(domain.StatusShortlisted)
		app, err := uc.UpdateStatus(context.Background(), 1, domain.StatusAccepted)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, app.Status)
	})

	t.Run("Should block SUBMITTED straight to ACCEPTED", func(t *testing.T) {
		uc, appRepo := newUC(domain.StatusSubmitted)
		_, err := uc.UpdateStatus(context.Background(), 1, domain.StatusAccepted)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transition")
		appRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should keep ACCEPTED terminal", func(t *testing.T) {
		uc, _ := newUC(domain.StatusAccepted)
		_, err := uc.UpdateStatus(context.Background(), 1, domain.StatusRejected)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transition")
	})

	t.Run("Should keep REJECTED terminal", func(t *testing.T) {
		uc, _ := newUC(domain.StatusRejected)
		_, err := uc.UpdateStatus(context.Background(), 1, domain.StatusShortlisted)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transition")
	})
}

func TestApplicationSearch(t *testing.T) {
	t.Run("Should uppercase the status before filtering", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := newApplicationUC(appRepo, new(MockJobRepo), new(MockUserRepo), newStubFileStore(), &stubNotifier{})
		appRepo.On("Search", mock.Anything, domain.ApplicationFilter{Status: domain.StatusShortlisted}).Return([]domain.Application{}, nil)

		_, err := uc.Search(context.Background(), "", "", "shortlisted")
		assert.NoError(t, err)
		appRepo.AssertExpectations(t)
	})

	t.Run("Should reject an unrecognized status filter", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := newApplicationUC(appRepo, new(MockJobRepo), new(MockUserRepo), newStubFileStore(), &stubNotifier{})
		_, err := uc.Search(context.Background(), "", "", "pending")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unrecognized status")
		appRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})
}

func TestRegister(t *testing.T) {
	notifier := &stubNotifier{}
	hasher := hash.NewBcryptHasher()
	tokens := token.NewService("test-secret", time.Hour)

	t.Run("Should reject a duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(userRepo, new(MockResetTokenRepo), hasher, tokens, notifier)
		userRepo.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(true, nil)

		_, err := uc.Register(context.Background(), "Ada", "Ada@Example.com ", "hunter2hunter2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Email already exists")
		assert.Equal(t, 400, appCode(t, err))
	})

	t.Run("Should reject a short password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(userRepo, new(MockResetTokenRepo), hasher, tokens, notifier)
		_, err := uc.Register(context.Background(), "Ada", "ada@example.com", "short")
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should create a candidate with a hashed password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(userRepo, new(MockResetTokenRepo), hasher, tokens, notifier)
		userRepo.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(false, nil)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			assert.Equal(t, domain.RoleCandidate, u.Role)
			assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
			assert.NotEmpty(t, u.PasswordHash)
		})

		user, err := uc.Register(context.Background(), " Ada ", "ADA@example.com", "hunter2hunter2")
		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Ada", user.Name)
	})
}

func TestLogin(t *testing.T) {
	notifier := &stubNotifier{}
	hasher := hash.NewBcryptHasher()
	tokens := token.NewService("test-secret", time.Hour)

	hashed, err := hasher.Hash("hunter2hunter2")
	assert.NoError(t, err)
	stored := &domain.User{ID: 7, Name: "Ada", Email: "ada@example.com", PasswordHash: hashed, Role: domain.RoleCandidate}

	t.Run("Should use one message for unknown email and wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(userRepo, new(MockResetTokenRepo), hasher, tokens, notifier)
		userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)
		userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		_, unknownErr := uc.Login(context.Background(), "nobody@example.com", "whatever1")
		_, wrongErr := uc.Login(context.Background(), "ada@example.com", "wrong-password")
		assert.Error(t, unknownErr)
		assert.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
		assert.Equal(t, 401, appCode(t, unknownErr))
	})

	t.Run("Should issue a token carrying email and role", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(userRepo, new(MockResetTokenRepo), hasher, tokens, notifier)
		userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		result, err := uc.Login(context.Background(), "Ada@Example.com", "hunter2hunter2")
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleCandidate, result.Role)

		claims, err := tokens.Parse(result.Token)
		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.Equal(t, domain.RoleCandidate, claims.Role)
	})
}

func TestPasswordReset(t *testing.T) {
	notifier := &stubNotifier{}
	hasher := hash.NewBcryptHasher()
	tokens := token.NewService("test-secret", time.Hour)

	t.Run("ForgotPassword should not reveal unknown accounts", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		resetRepo := new(MockResetTokenRepo)
		uc := usecase.NewAuthUsecase(userRepo, resetRepo, hasher, tokens, notifier)
		userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

		err := uc.ForgotPassword(context.Background(), "nobody@example.com")
		assert.NoError(t, err)
		resetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ForgotPassword should persist only a digest", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		resetRepo := new(MockResetTokenRepo)
		uc := usecase.NewAuthUsecase(userRepo, resetRepo, hasher, tokens, notifier)
		userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{ID: 7, Email: "ada@example.com"}, nil)
		resetRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ResetToken")).Return(nil).Run(func(args mock.Arguments) {
			reset := args.Get(1).(*domain.ResetToken)
			assert.Equal(t, int64(7), reset.UserID)
			assert.Len(t, reset.TokenHash, 64) // hex sha-256
			assert.True(t, reset.ExpiresAt.After(time.Now()))
		})

		err := uc.ForgotPassword(context.Background(), "ada@example.com")
		assert.NoError(t, err)
		resetRepo.AssertExpectations(t)
	})

	t.Run("ResetPassword should reject an expired token", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		resetRepo := new(MockResetTokenRepo)
		uc := usecase.NewAuthUsecase(userRepo, resetRepo, hasher, tokens, notifier)
		resetRepo.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.ResetToken{
			ID: 1, UserID: 7, ExpiresAt: time.Now().Add(-time.Minute),
		}, nil)

		err := uc.ResetPassword(context.Background(), "raw-token", "newpassword1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired")
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ResetPassword should reject a used token", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		resetRepo := new(MockResetTokenRepo)
		uc := usecase.NewAuthUsecase(userRepo, resetRepo, hasher, tokens, notifier)
		used := time.Now().Add(-time.Minute)
		resetRepo.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.ResetToken{
			ID: 1, UserID: 7, ExpiresAt: time.Now().Add(time.Hour), UsedAt: &used,
		}, nil)

		err := uc.ResetPassword(context.Background(), "raw-token", "newpassword1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired")
	})

	t.Run("ResetPassword should consume the token and rewrite the hash", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		resetRepo := new(MockResetTokenRepo)
		uc := usecase.NewAuthUsecase(userRepo, resetRepo, hasher, tokens, notifier)
		resetRepo.On("GetByHash", mock.Anything, token.HashResetToken("raw-token")).Return(&domain.ResetToken{
			ID: 1, UserID: 7, ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		resetRepo.On("MarkUsed", mock.Anything, int64(1)).Return(nil)
		userRepo.On("UpdatePassword", mock.Anything, int64(7), mock.AnythingOfType("string")).Return(nil)

		err := uc.ResetPassword(context.Background(), "raw-token", "newpassword1")
		assert.NoError(t, err)
		resetRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})
}

func TestJobSearchNormalization(t *testing.T) {
	jobRepo := new(MockJobRepo)
	uc := usecase.NewJobUsecase(jobRepo)

	t.Run("Should strip the all sentinel regardless of case", func(t *testing.T) {
		jobRepo.On("Search", mock.Anything, domain.JobFilter{Search: "go"}).Return([]domain.Job{}, nil)
		_, err := uc.SearchJobs(context.Background(), " go ", "All", "ALL")
		assert.NoError(t, err)
		jobRepo.AssertExpectations(t)
	})
}

func TestJobValidation(t *testing.T) {
	jobRepo := new(MockJobRepo)
	uc := usecase.NewJobUsecase(jobRepo)

	t.Run("Should require title, category and location", func(t *testing.T) {
		err := uc.CreateJob(context.Background(), &domain.Job{Title: "Engineer"})
		assert.Error(t, err)
		assert.Equal(t, 400, appCode(t, err))
		jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should map a missing row on delete to 404", func(t *testing.T) {
		jobRepo.On("Delete", mock.Anything, int64(9)).Return(domain.ErrNotFound)
		err := uc.DeleteJob(context.Background(), 9)
		assert.Error(t, err)
		assert.Equal(t, 404, appCode(t, err))
	})
}

func TestCandidateProfile(t *testing.T) {
	t.Run("Should reject changing email to one already taken", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewCandidateUsecase(userRepo, newStubFileStore())
		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Name: "Ada", Email: "ada@example.com"}, nil)
		userRepo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := uc.UpdateProfile(context.Background(), 7, "Ada", "taken@example.com")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Email already exists")
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should skip the conflict check when email is unchanged", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		uc := usecase.NewCandidateUsecase(userRepo, newStubFileStore())
		userRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Name: "Ada", Email: "ada@example.com"}, nil)
		userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := uc.UpdateProfile(context.Background(), 7, "Ada L", "ada@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Ada L", user.Name)
		userRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}
