package snippets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-composer/internal/ownership"
	"resume-composer/internal/shared/server/middleware"
	"resume-composer/internal/shared/server/respond"
)

// Handler exposes the snippet library over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts snippet routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/snippets", h.list)
	rg.GET("/snippets/:lineageId", h.get)
	rg.GET("/snippets/:lineageId/versions", h.history)
	rg.PATCH("/snippets/:lineageId", h.edit)
	rg.DELETE("/snippets/:lineageId", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list snippets")
		return
	}
	respond.JSON(c, http.StatusOK, toResponses(items))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var version int64
	if raw := c.Query("version"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "version must be a positive integer", nil)
			return
		}
		version = parsed
	}

	snippet, err := h.Svc.Get(c.Request.Context(), userID, c.Param("lineageId"), version)
	if err != nil {
		writeError(c, err, "failed to load snippet")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(snippet))
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	versions, err := h.Svc.History(c.Request.Context(), userID, c.Param("lineageId"))
	if err != nil {
		writeError(c, err, "failed to load snippet history")
		return
	}
	respond.JSON(c, http.StatusOK, toResponses(versions))
}

func (h *Handler) edit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req EditSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	snippet, err := h.Svc.Edit(c.Request.Context(), userID, c.Param("lineageId"), req.FromVersion, req.Kind, req.Content)
	if err != nil {
		writeError(c, err, "failed to update snippet")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(snippet))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("lineageId")); err != nil {
		writeError(c, err, "failed to delete snippet")
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "snippet not found", nil)
	case errors.Is(err, ownership.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "snippet belongs to another user", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
