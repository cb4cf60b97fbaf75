package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	report := s.renders.Health(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"editorHealthy":    report.EditorHealthy,
		"generatorHealthy": report.GeneratorHealthy,
		"renders": gin.H{
			"total":     report.Renders.Total,
			"queued":    report.Renders.Queued,
			"rendering": report.Renders.Rendering,
			"completed": report.Renders.Completed,
			"failed":    report.Renders.Failed,
		},
	})
}
