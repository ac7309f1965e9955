package v1

import (
	"net/http"
	"strconv"

	"veridia-hiring-backend/internal/delivery/http/middleware"
	"veridia-hiring-backend/internal/delivery/http/response"
	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler registers the job routes: public browsing plus the
// admin-only CRUD surface.
func NewJobHandler(public, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := public.Group("/jobs")
	{
		jobs.GET("", handler.ListJobs)
		jobs.GET("/featured", handler.ListFeaturedJobs)
		jobs.GET("/search", handler.SearchJobs)
		jobs.GET("/filters", handler.GetFilters)
		jobs.GET("/:id", handler.GetJob)
	}

	admin := protected.Group("/admin/jobs")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("", handler.CreateJob)
		admin.PUT("/:id", handler.UpdateJob)
		admin.DELETE("/:id", handler.DeleteJob)
	}
}

// ListJobs godoc
// @Summary      List all job postings
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Router       /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobUC.ListJobs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// ListFeaturedJobs godoc
// @Summary      List featured job postings
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Router       /jobs/featured [get]
func (h *JobHandler) ListFeaturedJobs(c *gin.Context) {
	jobs, err := h.jobUC.ListFeaturedJobs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Featured jobs retrieved", jobs)
}

// SearchJobs godoc
// @Summary      Search jobs by text, category and location
// @Description  The three predicates are optional and combined with AND; "all" disables one
// @Tags         jobs
// @Produce      json
// @Param        search    query     string  false  "Free text matched against title/description"
// @Param        category  query     string  false  "Exact category or 'all'"
// @Param        location  query     string  false  "Location substring or 'all'"
// @Success      200       {object}  response.Response{data=[]domain.Job}
// @Router       /jobs/search [get]
func (h *JobHandler) SearchJobs(c *gin.Context) {
	jobs, err := h.jobUC.SearchJobs(c.Request.Context(),
		c.Query("search"), c.Query("category"), c.Query("location"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// GetFilters godoc
// @Summary      Get live filter options
// @Description  Distinct categories with counts and distinct locations, derived from current rows
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.FilterOptions}
// @Router       /jobs/filters [get]
func (h *JobHandler) GetFilters(c *gin.Context) {
	opts, err := h.jobUC.GetFilterOptions(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Filter options retrieved", opts)
}

// GetJob godoc
// @Summary      Get a job posting
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	job, err := h.jobUC.GetJobDetails(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// JobRequest is the admin payload for creating/updating a posting.
// Posted and featured are real booleans; anything else fails binding.
type JobRequest struct {
	Title        string `json:"title" binding:"required"`
	Department   string `json:"department"`
	Location     string `json:"location" binding:"required"`
	Type         string `json:"type"`
	Experience   string `json:"experience"`
	Salary       string `json:"salary"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Posted       bool   `json:"posted"`
	Featured     bool   `json:"featured"`
}

func (r *JobRequest) toDomain() *domain.Job {
	return &domain.Job{
		Title:        r.Title,
		Department:   r.Department,
		Location:     r.Location,
		Type:         r.Type,
		Experience:   r.Experience,
		Salary:       r.Salary,
		Category:     r.Category,
		Description:  r.Description,
		Requirements: r.Requirements,
		Posted:       r.Posted,
		Featured:     r.Featured,
	}
}

// CreateJob godoc
// @Summary      Create a job posting (admin)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      JobRequest  true  "Job data"
// @Success      201   {object}  response.Response{data=domain.Job}
// @Failure      400   {object}  response.Response
// @Router       /admin/jobs [post]
// @Security     BearerAuth
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toDomain()
	if err := h.jobUC.CreateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// UpdateJob godoc
// @Summary      Update a job posting (admin)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      int         true  "Job ID"
// @Param        body  body      JobRequest  true  "Job data"
// @Success      200   {object}  response.Response{data=domain.Job}
// @Failure      404   {object}  response.Response
// @Router       /admin/jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toDomain()
	job.ID = id
	if err := h.jobUC.UpdateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job posting (admin)
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}
