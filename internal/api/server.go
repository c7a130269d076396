// Package api exposes sessions, archived plans and the A2A agent over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/BerylCAtieno/rankrent-factory/internal/a2a"
	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/BerylCAtieno/rankrent-factory/internal/store"
	"github.com/gin-gonic/gin"
)

// Archiver stores finished plans and gives access to what it stored.
// *store.Archiver satisfies it.
type Archiver interface {
	session.Archiver
	Plans() store.Store
	Assets() artifact.Store
}

type Server struct {
	sessions  *session.Registry
	generator a2a.Generator
	archiver  Archiver
	agent     *a2a.A2AHandler
}

func NewServer(sessions *session.Registry, generator a2a.Generator, archiver Archiver, agent *a2a.A2AHandler) *Server {
	return &Server{
		sessions:  sessions,
		generator: generator,
		archiver:  archiver,
		agent:     agent,
	}
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), CORS())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if s.agent != nil {
		router.GET("/.well-known/agent.json", s.agent.ServeAgentCard)
		router.POST(a2a.BlueprintRPC, a2a.RequestLoggingMiddleware(), s.agent.HandleBlueprint)
	}

	api := router.Group("/api")
	{
		api.POST("/sessions", s.createSession)
		api.DELETE("/sessions/:id", s.deleteSession)
		sess := api.Group("/sessions/:id", s.loadSession)
		sess.GET("", s.getSession)
		sess.POST("/submit", s.submitSession)
		sess.POST("/reset", s.resetSession)
		sess.DELETE("/error", s.dismissError)
		sess.GET("/events", s.streamEvents)
		sess.GET("/ws", s.streamWebsocket)

		api.POST("/plans", s.generatePlan)
		api.GET("/plans", s.listPlans)
		api.GET("/plans/:id", s.getPlan)
		api.GET("/plans/:id/bundle.zip", s.downloadBundle)
		api.GET("/plans/:id/assets", s.listAssets)
		api.GET("/plans/:id/assets/*path", s.getAsset)
	}
	return router
}

// CORS allows browser clients on any origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		h.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
