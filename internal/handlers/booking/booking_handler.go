// internal/handlers/booking/booking_handler.go
package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/booking"
	"sitterhub-service/internal/domain/role"
	"sitterhub-service/internal/middleware"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/response"
	bookingService "sitterhub-service/internal/service/booking"
	ws "sitterhub-service/internal/websocket"
)

type BookingHandler struct {
	bookingService *bookingService.BookingService
	hub            *ws.Hub
	logger         *zap.Logger
}

func NewBookingHandler(svc *bookingService.BookingService, hub *ws.Hub, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: svc,
		hub:            hub,
		logger:         logger,
	}
}

// Create opens a pending booking (parent only).
func (h *BookingHandler) Create(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	parentID := middleware.MustGetIdentityID(c)

	b, err := h.bookingService.Create(c.Request.Context(), parentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid booking window", nil)
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "sitter not found")
		default:
			h.logger.Error("booking create failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to create booking", err)
		}
		return
	}

	h.hub.BroadcastBookingUpdate(b)
	response.Success(c, http.StatusCreated, "booking created", b)
}

// UpdateStatus moves a booking along its lifecycle (sitter only).
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	var req booking.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	babysitterID := middleware.MustGetIdentityID(c)

	b, err := h.bookingService.UpdateStatus(c.Request.Context(), id, babysitterID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "booking not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "not your booking")
		case errors.Is(err, xerrors.ErrConflict):
			response.Error(c, http.StatusConflict, "invalid status transition", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to update booking", err)
		}
		return
	}

	h.hub.BroadcastBookingUpdate(b)
	response.Success(c, http.StatusOK, "booking updated", b)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid booking id", err)
		return
	}

	requesterID := middleware.MustGetIdentityID(c)

	b, err := h.bookingService.Get(c.Request.Context(), id, requesterID)
	if err != nil {
		if errors.Is(err, xerrors.ErrForbidden) {
			response.Forbidden(c, "not your booking")
			return
		}
		response.NotFound(c, "booking not found")
		return
	}
	response.Success(c, http.StatusOK, "ok", b)
}

// List returns the caller's bookings, from whichever side they sit on.
func (h *BookingHandler) List(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)
	rl, _ := middleware.GetRole(c)

	var (
		bookings []booking.BookingWithNames
		err      error
	)
	if rl == role.Babysitter {
		bookings, err = h.bookingService.ListForBabysitter(c.Request.Context(), userID)
	} else {
		bookings, err = h.bookingService.ListForParent(c.Request.Context(), userID)
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load bookings", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", bookings)
}
