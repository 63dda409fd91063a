package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploads  services.UploadService
	maxBytes int64
}

func NewUploadController(uploads services.UploadService, maxBytes int) *UploadController {
	return &UploadController{uploads: uploads, maxBytes: int64(maxBytes)}
}

// UploadImage godoc
// @Summary Upload a menu image
// @Description Accepts JPEG, PNG, WebP or GIF in the "file" form field
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/upload [post]
func (uc *UploadController) UploadImage(c *gin.Context) {
	// multipart framing needs some room above the file limit
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxBytes+64<<10)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrUploadInvalid, "A file field is required: "+err.Error()))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	url, err := uc.uploads.SaveImage(file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
