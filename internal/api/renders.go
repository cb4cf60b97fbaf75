package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recut/internal/render"
	"recut/internal/store"
)

type createRenderRequest struct {
	Script        string `json:"script"`
	RecipeID      string `json:"recipeId"`
	TranscriptID  string `json:"transcriptId"`
	Quality       string `json:"quality"`
	DeliverableID string `json:"deliverableId"`
}

func (s *Server) handleCreateRender(c *gin.Context) {
	var req createRenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", "invalid JSON payload: "+err.Error()))
		return
	}

	kind := store.RenderPreview
	if req.Quality != "" {
		parsed, ok := store.ParseRenderKind(req.Quality)
		if !ok {
			c.JSON(http.StatusBadRequest, errorBody("invalid_input", "quality must be preview or final"))
			return
		}
		kind = parsed
	}

	var created *store.Render
	var err error
	switch {
	case req.Script != "":
		created, err = s.renders.RenderScript(c.Request.Context(), render.ScriptRequest{
			Script:        req.Script,
			Kind:          kind,
			DeliverableID: req.DeliverableID,
		})
	case req.RecipeID != "" && req.TranscriptID != "":
		created, err = s.renders.ExecuteAndRender(c.Request.Context(), req.RecipeID, req.TranscriptID, req.DeliverableID, kind)
	default:
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", "either script or recipeId+transcriptId is required"))
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRenderResponse(created))
}

func (s *Server) handleRenderStatus(c *gin.Context) {
	current, err := s.renders.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRenderResponse(current))
}
