package v1

import (
	"io"
	"net/http"
	"strconv"

	"veridia-hiring-backend/internal/delivery/http/middleware"
	"veridia-hiring-backend/internal/delivery/http/response"
	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
	"veridia-hiring-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	app := protected.Group("/application")
	{
		app.POST("/submit", handler.Submit)
		app.GET("/me", handler.GetMyApplications)
	}

	admin := app.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/all", handler.ListAll)
		admin.GET("/search", handler.Search)
		admin.PUT("/update-status/:id", handler.UpdateStatus)
		admin.GET("/resume/:filename", handler.DownloadResume)
	}
}

// Submit godoc
// @Summary      Submit an application
// @Description  Multipart form: structured fields plus an optional resume file (pdf/doc/docx, max 10 MiB)
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      400  {object}  response.Response
// @Router       /application/submit [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Submit(c *gin.Context) {
	// Candidate identity comes from the session
	candidateID := c.GetInt64(string(domain.KeyUserID))
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can submit applications"))
		return
	}

	input := &domain.SubmitApplicationInput{
		FirstName:       c.PostForm("first_name"),
		LastName:        c.PostForm("last_name"),
		Phone:           c.PostForm("phone"),
		Location:        c.PostForm("location"),
		LinkedinProfile: c.PostForm("linkedin_profile"),
		GithubProfile:   c.PostForm("github_profile"),
		PortfolioLink:   c.PostForm("portfolio_link"),
		Skills:          c.PostForm("skills"),
		Education:       c.PostForm("education"),
		Experience:      c.PostForm("experience"),
		Availability:    c.PostForm("availability"),
		ExpectedSalary:  c.PostForm("expected_salary"),
		NoticePeriod:    c.PostForm("notice_period"),
		WorkMode:        c.PostForm("work_mode"),
	}
	if jobIDStr := c.PostForm("job_id"); jobIDStr != "" {
		jobID, err := strconv.ParseInt(jobIDStr, 10, 64)
		if err != nil {
			c.Error(apperror.BadRequest("Invalid job ID"))
			return
		}
		input.JobID = &jobID
	}

	resume, err := readUpload(c, "resume", security.MaxResumeSize)
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.Submit(c.Request.Context(), candidateID, input, resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application submitted successfully", gin.H{
		"applicationId": app.ID,
		"status":        app.Status,
		"application":   app,
	})
}

// GetMyApplications godoc
// @Summary      Get my applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      404  {object}  response.Response
// @Router       /application/me [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	candidateID := c.GetInt64(string(domain.KeyUserID))

	applications, err := h.applicationUC.GetMyApplications(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// ListAll godoc
// @Summary      List all applications (admin)
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Router       /application/admin/all [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	applications, err := h.applicationUC.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// Search godoc
// @Summary      Search applications (admin)
// @Description  Filters by candidate name, skills or status; the first non-empty predicate wins
// @Tags         applications
// @Produce      json
// @Param        name    query     string  false  "Candidate name substring"
// @Param        skills  query     string  false  "Skills substring"
// @Param        status  query     string  false  "Exact status"
// @Success      200     {object}  response.Response{data=[]domain.Application}
// @Router       /application/admin/search [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Search(c *gin.Context) {
	applications, err := h.applicationUC.Search(c.Request.Context(),
		c.Query("name"), c.Query("skills"), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// UpdateStatusRequest is the request payload for updating application status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary      Update application status (admin)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "Target status"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /application/admin/update-status/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", gin.H{
		"newStatus": app.Status,
	})
}

// DownloadResume godoc
// @Summary      Download a stored resume (admin)
// @Tags         applications
// @Produce      octet-stream
// @Param        filename  path      string  true  "Stored resume filename"
// @Success      200       {file}    binary
// @Failure      404       {object}  response.Response
// @Router       /application/admin/resume/{filename} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) DownloadResume(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.applicationUC.GetResume(c.Request.Context(), filename)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// readUpload pulls an optional multipart file into memory. maxSize bounds
// what we are willing to buffer; the strict limit is enforced again by the
// file validator.
func readUpload(c *gin.Context, field string, maxSize int64) (*domain.FileUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil // no file attached
	}

	if fileHeader.Size > maxSize {
		return nil, apperror.BadRequest("Uploaded file exceeds the maximum allowed size")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.FileUpload{
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
