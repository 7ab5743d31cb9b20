package bridge

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router builds the gin engine. The server binds to loopback for a local UI;
// CORS stays permissive so a dev-server-hosted UI can reach it.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/network/status", s.networkStatus)

		v1.POST("/auth/login", s.login)
		v1.POST("/auth/logout", s.logout)
		v1.GET("/auth/user", s.currentUser)

		v1.GET("/appointments", s.listAppointments)
		v1.POST("/appointments", s.createAppointment)
		v1.PUT("/appointments/:id", s.updateAppointment)
		v1.POST("/appointments/sync/pull", s.syncHandler(s.appointments, pullOp))
		v1.POST("/appointments/sync/push", s.syncHandler(s.appointments, pushOp))
		v1.POST("/appointments/autosync", s.autoSyncHandler(s.appointments))

		v1.GET("/articles", s.listArticles)
		v1.POST("/articles", s.createArticle)
		v1.POST("/articles/sync/pull", s.syncHandler(s.articles, pullOp))
		v1.POST("/articles/sync/push", s.syncHandler(s.articles, pushOp))
		v1.POST("/articles/autosync", s.autoSyncHandler(s.articles))

		v1.GET("/sync/status", s.syncStatus)
		v1.PUT("/settings/doctor", s.setDoctor)
	}
	return r
}

// recovery converts a handler panic into the standard error envelope instead
// of gin's default empty 500, keeping the no-throw boundary contract.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.logger.Error("bridge: handler panic", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   errorBody{Code: "internal", Message: "internal error"},
		})
	})
}
