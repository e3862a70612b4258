package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-composer/internal/ownership"
	"resume-composer/internal/relationships"
	"resume-composer/internal/shared/server/middleware"
	"resume-composer/internal/shared/server/respond"
)

// Handler exposes resumes and their composition over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts resume routes on the given router group. Reorder is
// a PUT on the collection path: the body names every child in its new order.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.remove)
	rg.POST("/resumes/:id/duplicate", h.duplicate)
	rg.GET("/resumes/:id/content", h.content)

	rg.GET("/resumes/:id/educations", h.listEducations)
	rg.POST("/resumes/:id/educations", h.attachEducation)
	rg.PUT("/resumes/:id/educations", h.reorderEducations)
	rg.DELETE("/resumes/:id/educations/:itemId", h.detachEducation)

	rg.GET("/resumes/:id/experiences", h.listExperiences)
	rg.POST("/resumes/:id/experiences", h.attachExperience)
	rg.PUT("/resumes/:id/experiences", h.reorderExperiences)
	rg.DELETE("/resumes/:id/experiences/:itemId", h.detachExperience)

	rg.GET("/resumes/:id/sections", h.listSections)
	rg.POST("/resumes/:id/sections", h.attachSection)
	rg.PUT("/resumes/:id/sections", h.reorderSections)
	rg.DELETE("/resumes/:id/sections/:itemId", h.detachSection)

	rg.GET("/resumes/:id/experiences/:itemId/bullets", h.listBullets)
	rg.POST("/resumes/:id/experiences/:itemId/bullets", h.attachBullet)
	rg.PUT("/resumes/:id/experiences/:itemId/bullets", h.reorderBullets)
	rg.DELETE("/resumes/:id/experiences/:itemId/bullets/:lineageId", h.detachBullet)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), userID, req.Name, req.IsTemplate)
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	respond.JSON(c, http.StatusCreated, resume)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if c.Query("master") == "true" {
		master, err := h.Svc.Master(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err, "failed to load master resume")
			return
		}
		respond.JSON(c, http.StatusOK, master)
		return
	}

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}
	respond.JSON(c, http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load resume")
		return
	}
	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) duplicate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req DuplicateResumeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	resume, err := h.Svc.Duplicate(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		writeError(c, err, "failed to duplicate resume")
		return
	}
	respond.JSON(c, http.StatusCreated, resume)
}

func (h *Handler) content(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	composed, err := h.Svc.Compose(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to compose resume")
		return
	}
	respond.JSON(c, http.StatusOK, toComposed(composed))
}

func (h *Handler) listEducations(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	placements, err := h.Svc.EducationPlacements(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to list resume educations")
		return
	}
	out := make([]EducationPlacementResponse, 0, len(placements))
	for _, p := range placements {
		out = append(out, toEducationPlacement(p))
	}
	respond.JSON(c, http.StatusOK, out)
}

func (h *Handler) attachEducation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req AttachEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var placement EducationPlacement
	var err error
	if req.Education != nil {
		placement, err = h.Svc.CreateEducation(c.Request.Context(), userID, c.Param("id"), req.Education.Model(userID))
	} else {
		placement, err = h.Svc.AttachEducation(c.Request.Context(), userID, c.Param("id"), req.EducationID)
	}
	if err != nil {
		writeError(c, err, "failed to attach education")
		return
	}
	respond.JSON(c, http.StatusCreated, toEducationPlacement(placement))
}

func (h *Handler) reorderEducations(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	req, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := h.Svc.ReorderEducations(c.Request.Context(), userID, c.Param("id"), req.Order); err != nil {
		writeError(c, err, "failed to reorder educations")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) detachEducation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DetachEducation(c.Request.Context(), userID, c.Param("id"), c.Param("itemId")); err != nil {
		writeError(c, err, "failed to detach education")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listExperiences(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	placements, err := h.Svc.ExperiencePlacements(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to list resume experiences")
		return
	}
	out := make([]ExperiencePlacementResponse, 0, len(placements))
	for _, p := range placements {
		out = append(out, toExperiencePlacement(p))
	}
	respond.JSON(c, http.StatusOK, out)
}

func (h *Handler) attachExperience(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req AttachExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var placement ExperiencePlacement
	var err error
	if req.Experience != nil {
		placement, err = h.Svc.CreateExperience(c.Request.Context(), userID, c.Param("id"), req.Experience.Model(userID))
	} else {
		placement, err = h.Svc.AttachExperience(c.Request.Context(), userID, c.Param("id"), req.ExperienceID)
	}
	if err != nil {
		writeError(c, err, "failed to attach experience")
		return
	}
	respond.JSON(c, http.StatusCreated, toExperiencePlacement(placement))
}

func (h *Handler) reorderExperiences(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	req, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := h.Svc.ReorderExperiences(c.Request.Context(), userID, c.Param("id"), req.Order); err != nil {
		writeError(c, err, "failed to reorder experiences")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) detachExperience(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DetachExperience(c.Request.Context(), userID, c.Param("id"), c.Param("itemId")); err != nil {
		writeError(c, err, "failed to detach experience")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSections(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	placements, err := h.Svc.SectionPlacements(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to list resume sections")
		return
	}
	out := make([]SectionPlacementResponse, 0, len(placements))
	for _, p := range placements {
		out = append(out, toSectionPlacement(p))
	}
	respond.JSON(c, http.StatusOK, out)
}

func (h *Handler) attachSection(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req AttachSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var placement SectionPlacement
	var err error
	if req.Section != nil {
		placement, err = h.Svc.CreateSection(c.Request.Context(), userID, c.Param("id"), req.Section.Model(userID))
	} else {
		placement, err = h.Svc.AttachSection(c.Request.Context(), userID, c.Param("id"), req.SectionID)
	}
	if err != nil {
		writeError(c, err, "failed to attach section")
		return
	}
	respond.JSON(c, http.StatusCreated, toSectionPlacement(placement))
}

func (h *Handler) reorderSections(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	req, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := h.Svc.ReorderSections(c.Request.Context(), userID, c.Param("id"), req.Order); err != nil {
		writeError(c, err, "failed to reorder sections")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) detachSection(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DetachSection(c.Request.Context(), userID, c.Param("id"), c.Param("itemId")); err != nil {
		writeError(c, err, "failed to detach section")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listBullets(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	placements, err := h.Svc.BulletPlacements(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"))
	if err != nil {
		writeError(c, err, "failed to list bullets")
		return
	}
	out := make([]BulletResponse, 0, len(placements))
	for _, p := range placements {
		out = append(out, toBullet(p))
	}
	respond.JSON(c, http.StatusOK, out)
}

func (h *Handler) attachBullet(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req AttachBulletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var placement BulletPlacement
	var err error
	if req.LineageID != "" {
		placement, err = h.Svc.AttachBullet(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), req.LineageID, req.Version)
	} else {
		placement, err = h.Svc.CreateBullet(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), req.Content)
	}
	if err != nil {
		writeError(c, err, "failed to attach bullet")
		return
	}
	respond.JSON(c, http.StatusCreated, toBullet(placement))
}

func (h *Handler) reorderBullets(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	req, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := h.Svc.ReorderBullets(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), req.Order); err != nil {
		writeError(c, err, "failed to reorder bullets")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) detachBullet(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DetachBullet(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), c.Param("lineageId")); err != nil {
		writeError(c, err, "failed to detach bullet")
		return
	}
	c.Status(http.StatusNoContent)
}

func bindReorder(c *gin.Context) (ReorderRequest, bool) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return req, false
	}
	if err := req.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return req, false
	}
	return req, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrItemNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "item not found", nil)
	case errors.Is(err, relationships.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "placement not found", nil)
	case errors.Is(err, ownership.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resource belongs to another user", nil)
	case errors.Is(err, ErrLocked):
		respond.Error(c, http.StatusForbidden, "locked", "resume is locked", nil)
	case errors.Is(err, ErrMasterOnly):
		respond.Error(c, http.StatusForbidden, "master_only", "only the master resume can create new entries", nil)
	case errors.Is(err, ErrMasterImmutable):
		respond.Error(c, http.StatusConflict, "conflict", "the master resume cannot be deleted", nil)
	case errors.Is(err, relationships.ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "already attached", nil)
	case errors.Is(err, relationships.ErrInvalidOrder):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
