package api

import (
	"encoding/json"
	"time"

	"recut/internal/store"
)

type transcriptResponse struct {
	ID              string       `json:"id"`
	DeliverableID   string       `json:"deliverableId,omitempty"`
	AssetURL        string       `json:"assetUrl"`
	Words           []store.Word `json:"words"`
	FullText        string       `json:"fullText"`
	DurationSeconds float64      `json:"durationSeconds"`
	CreatedAt       time.Time    `json:"createdAt"`
}

func toTranscriptResponse(t *store.Transcript) transcriptResponse {
	return transcriptResponse{
		ID:              t.ID,
		DeliverableID:   t.DeliverableID,
		AssetURL:        t.AssetURL,
		Words:           t.Words,
		FullText:        t.FullText,
		DurationSeconds: t.DurationSeconds,
		CreatedAt:       t.CreatedAt,
	}
}

type recipeResponse struct {
	ID               string            `json:"id"`
	DeliverableID    string            `json:"deliverableId,omitempty"`
	TranscriptID     string            `json:"transcriptId,omitempty"`
	Instructions     string            `json:"instructions"`
	Version          int64             `json:"version"`
	Operations       []store.Operation `json:"operations"`
	CompilerRevision string            `json:"compilerRevision"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func toRecipeResponse(r *store.Recipe) recipeResponse {
	ops := r.Operations
	if ops == nil {
		ops = []store.Operation{}
	}
	return recipeResponse{
		ID:               r.ID,
		DeliverableID:    r.DeliverableID,
		TranscriptID:     r.TranscriptID,
		Instructions:     r.Instructions,
		Version:          r.Version,
		Operations:       ops,
		CompilerRevision: r.CompilerRevision,
		CreatedAt:        r.CreatedAt,
	}
}

type renderResponse struct {
	ID            string          `json:"id"`
	DeliverableID string          `json:"deliverableId,omitempty"`
	RecipeID      string          `json:"recipeId,omitempty"`
	Kind          string          `json:"kind"`
	Status        string          `json:"status"`
	ProviderJobID string          `json:"providerJobId"`
	AssetID       string          `json:"assetId,omitempty"`
	Metrics       json.RawMessage `json:"metrics,omitempty"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
}

func toRenderResponse(r *store.Render) renderResponse {
	resp := renderResponse{
		ID:            r.ID,
		DeliverableID: r.DeliverableID,
		RecipeID:      r.RecipeID,
		Kind:          string(r.Kind),
		Status:        string(r.Status),
		ProviderJobID: r.ProviderJobID,
		AssetID:       r.AssetID,
		ErrorMessage:  r.ErrorMessage,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CompletedAt:   r.CompletedAt,
	}
	if json.Valid([]byte(r.MetricsJSON)) {
		resp.Metrics = json.RawMessage(r.MetricsJSON)
	}
	return resp
}
