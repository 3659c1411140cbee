// internal/handlers/review/review_handler.go
package review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/review"
	"sitterhub-service/internal/middleware"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/response"
	reviewService "sitterhub-service/internal/service/review"
)

type ReviewHandler struct {
	reviewService *reviewService.ReviewService
	logger        *zap.Logger
}

func NewReviewHandler(svc *reviewService.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: svc,
		logger:        logger,
	}
}

// Create records a review for a completed booking (parent only).
func (h *ReviewHandler) Create(c *gin.Context) {
	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	parentID := middleware.MustGetIdentityID(c)

	rev, err := h.reviewService.Create(c.Request.Context(), parentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "booking not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "not your booking")
		case errors.Is(err, xerrors.ErrConflict):
			response.Error(c, http.StatusConflict, "booking is not completed", err)
		case errors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "booking already reviewed", nil)
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "sitter does not match booking", nil)
		default:
			h.logger.Error("review create failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to create review", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "review created", rev)
}

// ListForBabysitter returns a sitter's reviews (public endpoint).
func (h *ReviewHandler) ListForBabysitter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid sitter id", err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	reviews, err := h.reviewService.ListForBabysitter(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load reviews", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", reviews)
}
