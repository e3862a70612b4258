package profiles

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-composer/internal/shared/server/middleware"
	"resume-composer/internal/shared/server/respond"
)

const maxPhotoSize = 5 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.PUT("/profile", h.put)
	rg.POST("/profile/photo", h.uploadPhoto)
	rg.GET("/profile/photo", h.photo)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to load profile")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(profile))
}

func (h *Handler) put(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	profile, created, err := h.Svc.Upsert(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err, "failed to save profile")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond.JSON(c, status, toResponse(profile))
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	profile, err := h.Svc.UploadPhoto(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		writeError(c, err, "failed to store photo")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(profile))
}

func (h *Handler) photo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	reader, mimeType, err := h.Svc.OpenPhoto(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to load photo")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", mimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
