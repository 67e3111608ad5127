package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"termimage/backend/internal/logger"
	"termimage/backend/internal/models"
	"termimage/backend/internal/repository"
)

// AttachmentInput registers an already uploaded asset with the media library.
type AttachmentInput struct {
	Title        string `json:"title" example:"Sunset"`
	MimeType     string `json:"mime_type" binding:"required" example:"image/jpeg"`
	URL          string `json:"url" binding:"required,url" example:"https://cdn.example.com/sunset.jpg"`
	ThumbnailURL string `json:"thumbnail_url" binding:"omitempty,url" example:"https://cdn.example.com/sunset-150x150.jpg"`
}

type AttachmentResponse struct {
	ID           uint      `json:"id" example:"42"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title" example:"Sunset"`
	MimeType     string    `json:"mime_type" example:"image/jpeg"`
	URL          string    `json:"url" example:"https://cdn.example.com/sunset.jpg"`
	ThumbnailURL string    `json:"thumbnail_url" example:"https://cdn.example.com/sunset-150x150.jpg"`
}

// PaginatedAttachmentResponse defines the structure for a paginated list of attachments.
type PaginatedAttachmentResponse struct {
	Data []AttachmentResponse `json:"data"`
	Meta PaginationMeta       `json:"meta"`
}

func newAttachmentResponse(a models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		Title:        a.Title,
		MimeType:     a.MimeType,
		URL:          a.URL,
		ThumbnailURL: a.ThumbnailURL,
	}
}

// MediaHandler backs the media picker of the admin screens.
type MediaHandler struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewMediaHandler(db *gorm.DB, log *logrus.Entry) *MediaHandler {
	return &MediaHandler{db: db, log: log}
}

// ListMedia godoc
// @Summary      List media
// @Description  Retrieves a paginated list of attachments, newest first.
// @Tags         admin-media
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "MIME type or type prefix, e.g. image"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedAttachmentResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      500   {object}  ErrorResponse
// @Router       /admin/media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	page := parsePage(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.Attachment{}).Order("created_at DESC")
	if mimeType := strings.TrimSpace(c.Query("type")); mimeType != "" {
		if strings.Contains(mimeType, "/") {
			query = query.Where("mime_type = ?", mimeType)
		} else {
			query = query.Where("mime_type LIKE ?", mimeType+"/%")
		}
	}

	attachments, total, err := repository.Paginate[models.Attachment](query, page)
	if err != nil {
		logger.FromContext(c, h.log).WithError(err).Error("failed to list attachments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media"})
		return
	}

	response := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		response = append(response, newAttachmentResponse(a))
	}
	c.JSON(http.StatusOK, newPaginatedResponse(response, total, page))
}

// CreateMedia godoc
// @Summary      Register a media item
// @Description  Adds an uploaded asset to the media library.
// @Tags         admin-media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AttachmentInput true "Attachment Info"
// @Success      201  {object}  AttachmentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/media [post]
func (h *MediaHandler) CreateMedia(c *gin.Context) {
	var input AttachmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment := models.Attachment{
		Title:        input.Title,
		MimeType:     input.MimeType,
		URL:          input.URL,
		ThumbnailURL: input.ThumbnailURL,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&attachment).Error; err != nil {
		logger.FromContext(c, h.log).WithError(err).Error("failed to create attachment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attachment"})
		return
	}

	c.JSON(http.StatusCreated, newAttachmentResponse(attachment))
}
