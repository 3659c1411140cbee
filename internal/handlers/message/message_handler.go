// internal/handlers/message/message_handler.go
package message

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
	"sitterhub-service/internal/middleware"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/response"
	"sitterhub-service/internal/service/messaging"
)

// MessageHandler is the REST surface over conversations; the websocket
// inbox covers the live path and this covers fetch/send for clients
// without a socket.
type MessageHandler struct {
	messagingService *messaging.Service
	logger           *zap.Logger
}

func NewMessageHandler(svc *messaging.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messagingService: svc,
		logger:           logger,
	}
}

// Contacts lists the caller's conversation counterparts.
func (h *MessageHandler) Contacts(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	contacts, err := h.messagingService.Contacts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load contacts", err)
		return
	}
	response.Success(c, http.StatusOK, "ok", contacts)
}

// Conversation returns the full thread with one counterpart and marks
// their messages read.
func (h *MessageHandler) Conversation(c *gin.Context) {
	counterpartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid counterpart id", err)
		return
	}

	userID := middleware.MustGetIdentityID(c)

	messages, err := h.messagingService.Conversation(c.Request.Context(), userID, counterpartID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load conversation", err)
		return
	}

	if err := h.messagingService.MarkRead(c.Request.Context(), userID, counterpartID); err != nil {
		h.logger.Warn("mark read failed", zap.Error(err))
	}

	response.Success(c, http.StatusOK, "ok", messages)
}

// Send persists a message and pushes it to the receiver's live inbox.
func (h *MessageHandler) Send(c *gin.Context) {
	var req message.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	senderID := middleware.MustGetIdentityID(c)

	msg, err := h.messagingService.Insert(c.Request.Context(), senderID, req.ReceiverID, req.Text)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "cannot message yourself", nil)
			return
		}
		h.logger.Error("message send failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to send message", err)
		return
	}

	response.Success(c, http.StatusCreated, "message sent", msg)
}
