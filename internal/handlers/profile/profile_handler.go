// internal/handlers/profile/profile_handler.go
package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/availability"
	"sitterhub-service/internal/domain/child"
	"sitterhub-service/internal/domain/profile"
	"sitterhub-service/internal/middleware"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/response"
	profileService "sitterhub-service/internal/service/profile"
)

type ProfileHandler struct {
	profileService *profileService.ProfileService
	logger         *zap.Logger
}

func NewProfileHandler(svc *profileService.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: svc,
		logger:         logger,
	}
}

// ========== Babysitter ==========

func (h *ProfileHandler) UpsertBabysitter(c *gin.Context) {
	var req profile.UpsertBabysitterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	userID := middleware.MustGetIdentityID(c)

	p, err := h.profileService.UpsertBabysitter(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("babysitter upsert failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to save profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile saved", p)
}

func (h *ProfileHandler) MyBabysitterProfile(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	p, err := h.profileService.GetBabysitterByUserID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "profile not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", p)
}

// GetBabysitter returns one sitter's public listing (public endpoint).
func (h *ProfileHandler) GetBabysitter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid sitter id", err)
		return
	}

	p, err := h.profileService.GetBabysitter(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "sitter not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load sitter", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", p)
}

// SearchBabysitters searches public listings (public endpoint).
func (h *ProfileHandler) SearchBabysitters(c *gin.Context) {
	var filters profile.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid search filters", err)
		return
	}

	result, err := h.profileService.SearchBabysitters(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "search failed", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", result)
}

// ========== Parent ==========

func (h *ProfileHandler) UpsertParent(c *gin.Context) {
	var req profile.UpsertParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	userID := middleware.MustGetIdentityID(c)

	p, err := h.profileService.UpsertParent(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("parent upsert failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to save profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile saved", p)
}

func (h *ProfileHandler) MyParentProfile(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	p, err := h.profileService.GetParentByUserID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "profile not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", p)
}

// ========== Availability ==========

func (h *ProfileHandler) ReplaceAvailability(c *gin.Context) {
	var req availability.ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	userID := middleware.MustGetIdentityID(c)

	slots, err := h.profileService.ReplaceAvailability(c.Request.Context(), userID, req.Slots)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to save availability", err)
		return
	}
	response.Success(c, http.StatusOK, "availability saved", slots)
}

// ListAvailability returns a sitter's weekly schedule (public endpoint).
func (h *ProfileHandler) ListAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid sitter id", err)
		return
	}

	slots, err := h.profileService.ListAvailability(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load availability", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", slots)
}

// ========== Children ==========

func (h *ProfileHandler) ReplaceChildren(c *gin.Context) {
	var req child.ReplaceChildrenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	userID := middleware.MustGetIdentityID(c)

	children, err := h.profileService.ReplaceChildren(c.Request.Context(), userID, req.Children)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to save children", err)
		return
	}
	response.Success(c, http.StatusOK, "children saved", children)
}

func (h *ProfileHandler) ListChildren(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	children, err := h.profileService.ListChildren(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load children", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", children)
}
