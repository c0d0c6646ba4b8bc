package routes

import (
	"net/http"
	"time"

	"dencare/handlers"
	"dencare/middleware"
	"dencare/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	// Websocket endpoint; the socket authenticates over its own protocol.
	r.GET("/ws", hb.WebsocketHandler)

	api := r.Group("/api")
	{
		api.GET("/available-slots", hb.AvailableSlotsHandler)

		// Protected routes (Require Authentication)
		authed := api.Group("")
		authed.Use(middleware.JWTAuthMiddleware())
		authed.POST("/appointments", hb.BookAppointmentHandler)
		authed.GET("/appointments", hb.ListAppointmentsHandler)
		authed.GET("/appointments/:id", hb.GetAppointmentHandler)
		authed.GET("/notifications", hb.ListNotificationsHandler)
		authed.POST("/notifications/:id/read", hb.MarkNotificationReadHandler)

		// Staff endpoints.
		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
		admin.PUT("/appointments/:id/status", hb.UpdateAppointmentStatusHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "infra": utils.GetHealthStatus()})
	})
}
