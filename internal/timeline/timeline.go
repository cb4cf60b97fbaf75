package timeline

// Transform carries per-segment rendering metadata attached by overlay and
// pacing operations.
type Transform struct {
	OverlayText string  `json:"overlayText,omitempty"`
	Speed       float64 `json:"speed,omitempty"`
}

// Segment is one span of retained source material. OutputOrder defines the
// final video's temporal order; segments never share an output position.
type Segment struct {
	SourceStart float64    `json:"sourceStart"`
	SourceEnd   float64    `json:"sourceEnd"`
	OutputOrder int        `json:"outputOrder"`
	Transform   *Transform `json:"transform,omitempty"`
}

// Duration returns the source span length in seconds.
func (s Segment) Duration() float64 {
	return s.SourceEnd - s.SourceStart
}

// Timeline is the executed form of a recipe: the ordered retained segments
// ready for rendering. It is never persisted; it is recomputed on demand
// from (recipe, transcript).
type Timeline struct {
	TranscriptID  string    `json:"transcriptId"`
	RecipeID      string    `json:"recipeId,omitempty"`
	Segments      []Segment `json:"segments"`
	OutputSeconds float64   `json:"outputSeconds"`
}
