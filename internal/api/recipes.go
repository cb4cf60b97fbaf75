package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recut/internal/recipe"
)

type compileRecipeRequest struct {
	Instructions   string `json:"instructions"`
	TranscriptID   string `json:"transcriptId"`
	TranscriptText string `json:"transcriptText"`
	DeliverableID  string `json:"deliverableId"`
}

func (s *Server) handleCompileRecipe(c *gin.Context) {
	var req compileRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", "invalid JSON payload: "+err.Error()))
		return
	}

	compiled, err := s.recipes.Compile(c.Request.Context(), recipe.CompileRequest{
		Instructions:   req.Instructions,
		TranscriptID:   req.TranscriptID,
		TranscriptText: req.TranscriptText,
		DeliverableID:  req.DeliverableID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecipeResponse(compiled))
}

func (s *Server) handleGetRecipe(c *gin.Context) {
	loaded, err := s.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecipeResponse(loaded))
}

func (s *Server) handleListRecipes(c *gin.Context) {
	deliverableID := c.Query("deliverableId")
	recipes, err := s.recipes.ByDeliverable(c.Request.Context(), deliverableID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

type executeRecipeRequest struct {
	TranscriptID string `json:"transcriptId"`
}

func (s *Server) handleExecuteRecipe(c *gin.Context) {
	var req executeRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid_input", "invalid JSON payload: "+err.Error()))
		return
	}

	tl, err := s.executor.Execute(c.Request.Context(), c.Param("id"), req.TranscriptID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tl)
}
