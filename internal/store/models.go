package store

import (
	"strings"
	"time"
)

// Word is a single transcribed word with source timing in seconds.
type Word struct {
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is an immutable word-level transcription of a media asset.
// Re-transcribing an asset creates a new Transcript, never an in-place edit.
type Transcript struct {
	ID              string
	DeliverableID   string
	AssetURL        string
	Words           []Word
	FullText        string
	DurationSeconds float64
	MetaJSON        string
	CreatedAt       time.Time
}

// JoinWords produces the canonical full text: word texts whitespace-joined.
func JoinWords(words []Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if text := strings.TrimSpace(w.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// WordsMonotonic reports whether word start times are non-decreasing.
func WordsMonotonic(words []Word) bool {
	for i := 1; i < len(words); i++ {
		if words[i].Start < words[i-1].Start {
			return false
		}
	}
	return true
}

// OpKind tags an edit operation variant.
type OpKind string

const (
	OpCut           OpKind = "cut"
	OpTrim          OpKind = "trim"
	OpReorder       OpKind = "reorder"
	OpOverlay       OpKind = "overlay"
	OpRemoveSilence OpKind = "remove_silence"
	OpRemoveFiller  OpKind = "remove_filler"
	OpAdjustPacing  OpKind = "adjust_pacing"
)

var opKindSet = map[OpKind]struct{}{
	OpCut:           {},
	OpTrim:          {},
	OpReorder:       {},
	OpOverlay:       {},
	OpRemoveSilence: {},
	OpRemoveFiller:  {},
	OpAdjustPacing:  {},
}

// KnownOpKind reports whether kind belongs to the operation vocabulary.
func KnownOpKind(kind OpKind) bool {
	_, ok := opKindSet[kind]
	return ok
}

// Operation is one structured edit step. Which fields are meaningful depends
// on Kind; unused fields stay zero.
type Operation struct {
	Kind OpKind `json:"kind"`
	// Start/End are a source time range in seconds (cut, trim, overlay,
	// adjust_pacing).
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	// From/To are segment positions after all prior operations (reorder).
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
	// Text is the overlay payload.
	Text string `json:"text,omitempty"`
	// MinGap is the silence threshold in seconds (remove_silence).
	MinGap float64 `json:"minGap,omitempty"`
	// Words is the filler vocabulary (remove_filler).
	Words []string `json:"words,omitempty"`
	// Factor is the speed multiplier (adjust_pacing).
	Factor float64 `json:"factor,omitempty"`
}

// Recipe is a versioned, ordered list of edit operations compiled from
// natural-language instructions. Versions per deliverable form a strictly
// increasing chain; compiling again creates version N+1, never mutates N.
type Recipe struct {
	ID               string
	DeliverableID    string
	TranscriptID     string
	Instructions     string
	Version          int64
	Operations       []Operation
	CompilerRevision string
	CreatedAt        time.Time
}

// RenderKind selects the fidelity tradeoff requested from the render farm.
type RenderKind string

const (
	RenderPreview RenderKind = "preview"
	RenderFinal   RenderKind = "final"
)

// ParseRenderKind converts a string into a known RenderKind.
func ParseRenderKind(value string) (RenderKind, bool) {
	switch RenderKind(strings.ToLower(strings.TrimSpace(value))) {
	case RenderPreview:
		return RenderPreview, true
	case RenderFinal:
		return RenderFinal, true
	}
	return "", false
}

// RenderStatus is the lifecycle of an external render job.
type RenderStatus string

const (
	RenderQueued    RenderStatus = "queued"
	RenderRendering RenderStatus = "rendering"
	RenderCompleted RenderStatus = "completed"
	RenderFailed    RenderStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s RenderStatus) Terminal() bool {
	return s == RenderCompleted || s == RenderFailed
}

// CanTransition enforces the monotone render state machine: queued may move
// forward to rendering or a terminal state, rendering only to a terminal
// state, and terminal states absorb everything.
func CanTransition(from, to RenderStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case RenderQueued:
		return to == RenderRendering || to == RenderCompleted || to == RenderFailed
	case RenderRendering:
		return to == RenderCompleted || to == RenderFailed
	default:
		return false
	}
}

// ParseRenderStatus converts a string into a known RenderStatus.
func ParseRenderStatus(value string) (RenderStatus, bool) {
	switch RenderStatus(strings.ToLower(strings.TrimSpace(value))) {
	case RenderQueued:
		return RenderQueued, true
	case RenderRendering:
		return RenderRendering, true
	case RenderCompleted:
		return RenderCompleted, true
	case RenderFailed:
		return RenderFailed, true
	}
	return "", false
}

// Render tracks one asynchronous render attempt. Rows are never deleted;
// they form the audit trail of render attempts for a deliverable.
type Render struct {
	ID            string
	DeliverableID string
	RecipeID      string
	Kind          RenderKind
	Status        RenderStatus
	ProviderJobID string
	AssetID       string
	MetricsJSON   string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// HealthSummary aggregates render counts per lifecycle state.
type HealthSummary struct {
	Total     int
	Queued    int
	Rendering int
	Completed int
	Failed    int
}
