// internal/app/router.go
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/role"
	adminHandler "sitterhub-service/internal/handlers/admin"
	authHandler "sitterhub-service/internal/handlers/auth"
	bookingHandler "sitterhub-service/internal/handlers/booking"
	messageHandler "sitterhub-service/internal/handlers/message"
	profileHandler "sitterhub-service/internal/handlers/profile"
	reviewHandler "sitterhub-service/internal/handlers/review"
	subscriptionHandler "sitterhub-service/internal/handlers/subscription"
	wsHandler "sitterhub-service/internal/handlers/websocket"
	"sitterhub-service/internal/middleware"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	ProfileHandler      *profileHandler.ProfileHandler
	BookingHandler      *bookingHandler.BookingHandler
	MessageHandler      *messageHandler.MessageHandler
	ReviewHandler       *reviewHandler.ReviewHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	AdminHandler        *adminHandler.AdminHandler
	WSHandler           *wsHandler.WebSocketHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket endpoint. Auth happens inside the handler because the
	// browser cannot set headers on an upgrade request.
	r.GET("/ws", h.WSHandler.HandleConnection)

	api := r.Group("/api/v1")

	// Public auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/login", h.AuthHandler.Login)
	}

	// Authenticated auth
	authProtected := api.Group("/auth", h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.POST("/refresh", h.AuthHandler.Refresh)
		authProtected.POST("/select-role", h.AuthHandler.SelectRole)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// Public sitter directory
	sitters := api.Group("/sitters")
	{
		sitters.GET("", h.ProfileHandler.SearchBabysitters)
		sitters.GET("/:id", h.ProfileHandler.GetBabysitter)
		sitters.GET("/:id/reviews", h.ReviewHandler.ListForBabysitter)
		sitters.GET("/:id/availability", h.ProfileHandler.ListAvailability)
	}

	// Profiles
	profiles := api.Group("/profiles", h.AuthMiddleware.Auth())
	{
		profiles.PUT("/babysitter", h.ProfileHandler.UpsertBabysitter)
		profiles.GET("/babysitter", h.ProfileHandler.MyBabysitterProfile)
		profiles.PUT("/parent", h.ProfileHandler.UpsertParent)
		profiles.GET("/parent", h.ProfileHandler.MyParentProfile)

		profiles.PUT("/availability",
			h.AuthMiddleware.RequireRole(role.Babysitter),
			h.ProfileHandler.ReplaceAvailability)

		profiles.PUT("/children",
			h.AuthMiddleware.RequireRole(role.Parent),
			h.ProfileHandler.ReplaceChildren)
		profiles.GET("/children",
			h.AuthMiddleware.RequireRole(role.Parent),
			h.ProfileHandler.ListChildren)
	}

	// Bookings
	bookings := api.Group("/bookings", h.AuthMiddleware.Auth())
	{
		bookings.POST("",
			h.AuthMiddleware.RequireRole(role.Parent),
			h.BookingHandler.Create)
		bookings.PUT("/:id/status",
			h.AuthMiddleware.RequireRole(role.Babysitter),
			h.BookingHandler.UpdateStatus)
		bookings.GET("/:id", h.BookingHandler.Get)
		bookings.GET("", h.BookingHandler.List)
	}

	// Messages
	messages := api.Group("/messages", h.AuthMiddleware.Auth())
	{
		messages.GET("/contacts", h.MessageHandler.Contacts)
		messages.GET("/:id", h.MessageHandler.Conversation)
		messages.POST("", h.MessageHandler.Send)
	}

	// Subscriptions
	subscriptions := api.Group("/subscriptions",
		h.AuthMiddleware.Auth(),
		h.AuthMiddleware.RequireRole(role.Parent))
	{
		subscriptions.POST("", h.SubscriptionHandler.Activate)
		subscriptions.GET("/current", h.SubscriptionHandler.Current)
		subscriptions.DELETE("/current", h.SubscriptionHandler.Cancel)
	}

	// Admin
	admin := api.Group("/admin",
		h.AuthMiddleware.Auth(),
		h.AuthMiddleware.RequireRole(role.Admin))
	{
		admin.GET("/identities", h.AdminHandler.ListIdentities)
		admin.GET("/sitters", h.AdminHandler.ListBabysitters)
		admin.PUT("/sitters/:id/verification", h.AdminHandler.SetVerification)
		admin.GET("/bookings", h.AdminHandler.RecentBookings)
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	logger.Info("routes registered")
}
