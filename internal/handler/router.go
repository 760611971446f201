package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/realtime"
	"github.com/labseat/internal/service"
)

// Dependencies are the services the router dispatches to.
// Everything is built in main before the server starts.
type Dependencies struct {
	Auth         *service.AuthService
	Sessions     *service.SessionService
	Profiles     *service.ProfileService
	Reservations *service.ReservationService
	Accounts     *service.AccountService
	Hub          *realtime.Hub

	// StaticDir is served under StaticPath when set (local picture storage)
	StaticDir  string
	StaticPath string

	// MaxMultipartMemory bounds the in-memory part of multipart uploads
	MaxMultipartMemory int64

	Build BuildInfo
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.WriteLoggerMiddleware())
	router.Use(CORSMiddleware())

	if d.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = d.MaxMultipartMemory
	}

	NewHealthHandler(d.Build).RegisterRoutes(router)
	NewAuthHandler(d.Auth).RegisterRoutes(router)
	NewSessionHandler(d.Sessions).RegisterRoutes(router)
	NewProfileHandler(d.Profiles).RegisterRoutes(router)
	NewReservationHandler(d.Reservations).RegisterRoutes(router)
	NewAccountHandler(d.Accounts).RegisterRoutes(router)
	if d.Hub != nil {
		NewFeedHandler(d.Hub).RegisterRoutes(router)
	}

	if d.StaticDir != "" && d.StaticPath != "" {
		router.Static(d.StaticPath, d.StaticDir)
	}

	return router
}

// CORSMiddleware allows any origin
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
