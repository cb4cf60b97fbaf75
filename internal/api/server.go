// Package api exposes the HTTP surface: transcription, recipe compilation,
// execution, render orchestration, voice commands, and health.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recut/internal/logging"
	"recut/internal/recipe"
	"recut/internal/render"
	"recut/internal/services"
	"recut/internal/timeline"
	"recut/internal/transcript"
	"recut/internal/voice"
)

const component = "api"

// Server wires the domain services behind the HTTP routes.
type Server struct {
	transcripts *transcript.Service
	recipes     *recipe.Compiler
	executor    *timeline.Executor
	renders     *render.Orchestrator
	voice       *voice.Bridge
	token       string
	logger      *slog.Logger
}

// Deps carries the collaborators the server needs.
type Deps struct {
	Transcripts *transcript.Service
	Recipes     *recipe.Compiler
	Executor    *timeline.Executor
	Renders     *render.Orchestrator
	Voice       *voice.Bridge
	// Token, when set, is required as a bearer token on every request
	// except health.
	Token  string
	Logger *slog.Logger
}

// NewServer constructs the HTTP server.
func NewServer(deps Deps) *Server {
	return &Server{
		transcripts: deps.Transcripts,
		recipes:     deps.Recipes,
		executor:    deps.Executor,
		renders:     deps.Renders,
		voice:       deps.Voice,
		token:       strings.TrimSpace(deps.Token),
		logger:      logging.WithComponent(deps.Logger, component),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())

	r.GET("/api/v1/health", s.handleHealth)

	v1 := r.Group("/api/v1")
	if s.token != "" {
		v1.Use(s.requireToken())
	}
	v1.POST("/transcripts", s.handleCreateTranscript)
	v1.GET("/transcripts/:id", s.handleGetTranscript)
	v1.POST("/recipes", s.handleCompileRecipe)
	v1.GET("/recipes/:id", s.handleGetRecipe)
	v1.GET("/recipes", s.handleListRecipes)
	v1.POST("/recipes/:id/execute", s.handleExecuteRecipe)
	v1.POST("/renders", s.handleCreateRender)
	v1.GET("/renders/:id", s.handleRenderStatus)
	v1.POST("/commands", s.handleCommand)
	return r
}

// requestID stamps each request with an id for log correlation.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(services.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || provided != s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("unauthorized", "missing or invalid token"))
			return
		}
		c.Next()
	}
}
