// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/subscription"
	"sitterhub-service/internal/middleware"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/response"
	subscriptionService "sitterhub-service/internal/service/subscription"
)

type SubscriptionHandler struct {
	subscriptionService *subscriptionService.SubscriptionService
	logger              *zap.Logger
}

func NewSubscriptionHandler(svc *subscriptionService.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: svc,
		logger:              logger,
	}
}

// Activate starts a plan for the caller (parent only).
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	var req subscription.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	parentID := middleware.MustGetIdentityID(c)

	sub, err := h.subscriptionService.Activate(c.Request.Context(), parentID, req.Plan)
	if err != nil {
		h.logger.Error("subscription activate failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to activate subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription activated", sub)
}

// Current returns the caller's active subscription.
func (h *SubscriptionHandler) Current(c *gin.Context) {
	parentID := middleware.MustGetIdentityID(c)

	sub, err := h.subscriptionService.Current(c.Request.Context(), parentID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "no active subscription")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load subscription", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	parentID := middleware.MustGetIdentityID(c)

	if err := h.subscriptionService.Cancel(c.Request.Context(), parentID); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "no active subscription")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to cancel subscription", err)
		return
	}
	response.Success(c, http.StatusOK, "subscription cancelled", nil)
}
