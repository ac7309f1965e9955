package v1

import (
	"net/http"

	"veridia-hiring-backend/internal/delivery/http/response"
	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
	"veridia-hiring-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCandidateHandler registers candidate profile routes
func NewCandidateHandler(protected *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidate := protected.Group("/candidate")
	{
		candidate.PUT("/profile", handler.UpdateProfile)
		candidate.POST("/photo", handler.UploadPhoto)
		candidate.GET("/photo/:filename", handler.GetPhoto)
	}
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateProfileRequest  true  "Profile data"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Router       /candidate/profile [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt64(string(domain.KeyUserID))

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	user, err := h.candidateUC.UpdateProfile(c.Request.Context(), userID, req.Name, req.Email)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

// UploadPhoto godoc
// @Summary      Upload a profile photo
// @Description  Image files only, max 5 MiB; large images are downscaled
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /candidate/photo [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadPhoto(c *gin.Context) {
	userID := c.GetInt64(string(domain.KeyUserID))

	upload, err := readUpload(c, "photo", security.MaxPhotoSize)
	if err != nil {
		c.Error(err)
		return
	}
	if upload == nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}

	stored, err := h.candidateUC.UploadPhoto(c.Request.Context(), userID, upload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Photo uploaded", gin.H{"profile_photo": stored})
}

// GetPhoto godoc
// @Summary      Download a profile photo
// @Tags         candidates
// @Produce      octet-stream
// @Param        filename  path      string  true  "Stored photo filename"
// @Success      200       {file}    binary
// @Failure      404       {object}  response.Response
// @Router       /candidate/photo/{filename} [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetPhoto(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.candidateUC.GetPhoto(c.Request.Context(), filename)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}
