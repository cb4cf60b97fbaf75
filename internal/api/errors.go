package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recut/internal/logging"
	"recut/internal/services"
)

// errorBody is the stable error envelope: {"error": {"kind", "message"}}.
func errorBody(kind, message string) gin.H {
	return gin.H{"error": gin.H{"kind": kind, "message": message}}
}

// statusForKind maps stable error kinds onto HTTP statuses.
func statusForKind(kind string) int {
	switch kind {
	case services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindExecutionError:
		return http.StatusUnprocessableEntity
	case services.KindTranscriptionFailed, services.KindRenderSubmissionFailed:
		return http.StatusBadGateway
	case services.KindRenderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	kind := services.Kind(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.String("path", c.FullPath()),
			logging.Error(err),
		)
	}
	c.JSON(status, errorBody(kind, err.Error()))
}
