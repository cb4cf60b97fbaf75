package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recut/internal/transcript"
)

type createTranscriptRequest struct {
	AssetURL      string `json:"assetUrl"`
	DeliverableID string `json:"deliverableId"`
}

func (s *Server) handleCreateTranscript(c *gin.Context) {
	var req createTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", "invalid JSON payload: "+err.Error()))
		return
	}

	created, err := s.transcripts.Transcribe(c.Request.Context(), transcript.TranscribeRequest{
		MediaURL:      req.AssetURL,
		DeliverableID: req.DeliverableID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTranscriptResponse(created))
}

func (s *Server) handleGetTranscript(c *gin.Context) {
	loaded, err := s.transcripts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTranscriptResponse(loaded))
}
