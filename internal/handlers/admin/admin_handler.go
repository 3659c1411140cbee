// internal/handlers/admin/admin_handler.go
package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/pkg/response"
	adminService "sitterhub-service/internal/service/admin"
)

type AdminHandler struct {
	adminService *adminService.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(svc *adminService.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: svc,
		logger:       logger,
	}
}

func (h *AdminHandler) ListIdentities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	identities, err := h.adminService.ListIdentities(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load accounts", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", identities)
}

func (h *AdminHandler) ListBabysitters(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	sitters, err := h.adminService.ListBabysitters(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load sitters", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", sitters)
}

// SetVerification toggles a sitter's verified badge.
func (h *AdminHandler) SetVerification(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.adminService.SetVerification(c.Request.Context(), userID, req.Verified); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to update verification", err)
		return
	}
	response.Success(c, http.StatusOK, "verification updated", nil)
}

func (h *AdminHandler) RecentBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	bookings, err := h.adminService.RecentBookings(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load bookings", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", bookings)
}
