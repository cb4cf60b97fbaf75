package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recut/internal/store"
	"recut/internal/voice"
)

type commandRequest struct {
	Command       string `json:"command"`
	TranscriptID  string `json:"transcriptId"`
	DeliverableID string `json:"deliverableId"`
	TaskID        string `json:"taskId"`
	AutoRender    bool   `json:"autoRender"`
	Quality       string `json:"quality"`
}

type commandResponse struct {
	Recipe      recipeResponse  `json:"recipe"`
	Render      *renderResponse `json:"render,omitempty"`
	RenderError string          `json:"renderError,omitempty"`
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", "invalid JSON payload: "+err.Error()))
		return
	}

	kind := store.RenderKind("")
	if req.Quality != "" {
		parsed, ok := store.ParseRenderKind(req.Quality)
		if !ok {
			c.JSON(http.StatusBadRequest, errorBody("invalid_input", "quality must be preview or final"))
			return
		}
		kind = parsed
	}

	// taskId owns any auto-render; deliverableId is an accepted alias from
	// callers that track work per deliverable.
	taskID := req.TaskID
	if taskID == "" {
		taskID = req.DeliverableID
	}

	result, err := s.voice.ProcessCommand(c.Request.Context(), voice.Command{
		Text:         req.Command,
		TranscriptID: req.TranscriptID,
		TaskID:       taskID,
		AutoRender:   req.AutoRender,
		RenderKind:   kind,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := commandResponse{
		Recipe:      toRecipeResponse(result.Recipe),
		RenderError: result.RenderError,
	}
	if result.Render != nil {
		rendered := toRenderResponse(result.Render)
		resp.Render = &rendered
	}
	c.JSON(http.StatusCreated, resp)
}
