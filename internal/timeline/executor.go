package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/store"
)

const component = "timeline"

// epsilon guards float comparisons when splitting segments at word
// boundaries produced by the same source data.
const epsilon = 1e-9

// RecipeSource abstracts the persistence reads the executor needs.
type RecipeSource interface {
	GetRecipe(ctx context.Context, id string) (*store.Recipe, error)
	GetTranscript(ctx context.Context, id string) (*store.Transcript, error)
}

// Executor resolves recipe and transcript identifiers and applies the
// recipe's operations. Execution is pure: no network calls, no writes.
type Executor struct {
	source RecipeSource
	logger *slog.Logger
}

// NewExecutor constructs an Executor around the provided source.
func NewExecutor(source RecipeSource, logger *slog.Logger) *Executor {
	return &Executor{source: source, logger: logging.WithComponent(logger, component)}
}

// Execute loads the recipe and transcript and applies the operations in
// recipe order.
func (e *Executor) Execute(ctx context.Context, recipeID, transcriptID string) (*Timeline, error) {
	recipe, err := e.source.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "execute", "load recipe", err)
	}
	if recipe == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "execute", fmt.Sprintf("recipe %s", recipeID), nil)
	}
	transcript, err := e.source.GetTranscript(ctx, transcriptID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "execute", "load transcript", err)
	}
	if transcript == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "execute", fmt.Sprintf("transcript %s", transcriptID), nil)
	}

	tl, err := Apply(recipe, transcript)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("recipe executed",
		logging.String(logging.FieldRecipeID, recipeID),
		logging.String(logging.FieldTranscriptID, transcriptID),
		logging.Int("segments", len(tl.Segments)),
		logging.Float64("output_seconds", tl.OutputSeconds),
	)
	return tl, nil
}

// Apply runs the recipe's operations against the transcript's word and time
// data. Operations apply strictly in recipe order: each one sees the segment
// state produced by its predecessors, so a reorder after a cut addresses
// post-cut positions. Zero operations yields the identity timeline.
func Apply(recipe *store.Recipe, transcript *store.Transcript) (*Timeline, error) {
	duration := transcript.DurationSeconds
	if duration <= 0 && len(transcript.Words) > 0 {
		duration = transcript.Words[len(transcript.Words)-1].End
	}
	if duration <= 0 {
		return nil, execErr("apply", "transcript has no duration", nil)
	}

	segs := []Segment{{SourceStart: 0, SourceEnd: duration}}

	for i, op := range recipe.Operations {
		var err error
		switch op.Kind {
		case store.OpCut:
			segs, err = applyCut(segs, op.Start, op.End)
		case store.OpTrim:
			segs, err = applyTrim(segs, op.Start, op.End)
		case store.OpReorder:
			segs, err = applyReorder(segs, op.From, op.To)
		case store.OpOverlay:
			segs, err = applyOverlay(segs, op.Start, op.End, op.Text)
		case store.OpRemoveSilence:
			segs = applyRemoveSilence(segs, transcript.Words, op.MinGap)
		case store.OpRemoveFiller:
			segs = applyRemoveFiller(segs, transcript.Words, op.Words)
		case store.OpAdjustPacing:
			segs, err = applyAdjustPacing(segs, op.Start, op.End, op.Factor)
		default:
			err = execErr("apply", fmt.Sprintf("unknown operation kind %q", op.Kind), nil)
		}
		if err != nil {
			return nil, execErr("apply", fmt.Sprintf("operation %d (%s)", i+1, op.Kind), err)
		}
	}

	var output float64
	for i := range segs {
		segs[i].OutputOrder = i
		speed := 1.0
		if segs[i].Transform != nil && segs[i].Transform.Speed > 0 {
			speed = segs[i].Transform.Speed
		}
		output += segs[i].Duration() / speed
	}

	return &Timeline{
		TranscriptID:  transcript.ID,
		RecipeID:      recipe.ID,
		Segments:      segs,
		OutputSeconds: output,
	}, nil
}

func execErr(op, message string, err error) error {
	return services.Wrap(services.ErrExecution, component, op, message, err)
}

func applyCut(segs []Segment, start, end float64) ([]Segment, error) {
	if end <= start {
		return nil, fmt.Errorf("empty range [%g,%g]", start, end)
	}
	result := make([]Segment, 0, len(segs)+1)
	removed := false
	for _, seg := range segs {
		if end <= seg.SourceStart+epsilon || start >= seg.SourceEnd-epsilon {
			result = append(result, seg)
			continue
		}
		removed = true
		if start > seg.SourceStart+epsilon {
			left := seg
			left.SourceEnd = start
			result = append(result, left)
		}
		if end < seg.SourceEnd-epsilon {
			right := seg
			right.SourceStart = end
			result = append(result, right)
		}
	}
	if !removed {
		return nil, fmt.Errorf("range [%g,%g] resolves to no retained material", start, end)
	}
	return result, nil
}

func applyTrim(segs []Segment, start, end float64) ([]Segment, error) {
	if end <= start {
		return nil, fmt.Errorf("empty range [%g,%g]", start, end)
	}
	result := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if end <= seg.SourceStart+epsilon || start >= seg.SourceEnd-epsilon {
			continue
		}
		clipped := seg
		if start > clipped.SourceStart {
			clipped.SourceStart = start
		}
		if end < clipped.SourceEnd {
			clipped.SourceEnd = end
		}
		result = append(result, clipped)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("range [%g,%g] resolves to no retained material", start, end)
	}
	return result, nil
}

func applyReorder(segs []Segment, from, to int) ([]Segment, error) {
	if from < 0 || from >= len(segs) {
		return nil, fmt.Errorf("position %d out of range (have %d segments)", from, len(segs))
	}
	if to < 0 || to >= len(segs) {
		return nil, fmt.Errorf("target position %d out of range (have %d segments)", to, len(segs))
	}
	if from == to {
		return segs, nil
	}
	result := make([]Segment, 0, len(segs))
	moved := segs[from]
	result = append(result, segs[:from]...)
	result = append(result, segs[from+1:]...)
	tail := append([]Segment{}, result[to:]...)
	result = append(result[:to], moved)
	result = append(result, tail...)
	return result, nil
}

func applyOverlay(segs []Segment, start, end float64, text string) ([]Segment, error) {
	if end <= start {
		return nil, fmt.Errorf("empty range [%g,%g]", start, end)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("overlay text required")
	}
	result := make([]Segment, 0, len(segs)+2)
	touched := false
	for _, seg := range segs {
		if end <= seg.SourceStart+epsilon || start >= seg.SourceEnd-epsilon {
			result = append(result, seg)
			continue
		}
		touched = true
		if start > seg.SourceStart+epsilon {
			left := seg
			left.SourceEnd = start
			result = append(result, left)
		}
		mid := seg
		if start > mid.SourceStart {
			mid.SourceStart = start
		}
		if end < mid.SourceEnd {
			mid.SourceEnd = end
		}
		mid.Transform = mergeTransform(seg.Transform, Transform{OverlayText: text})
		result = append(result, mid)
		if end < seg.SourceEnd-epsilon {
			right := seg
			right.SourceStart = end
			result = append(result, right)
		}
	}
	if !touched {
		return nil, fmt.Errorf("range [%g,%g] resolves to no retained material", start, end)
	}
	return result, nil
}

func applyRemoveSilence(segs []Segment, words []store.Word, minGap float64) []Segment {
	if minGap <= 0 {
		minGap = 0.5
	}
	// Gaps over already-removed material are skipped silently; silence
	// removal is a legitimate no-op on a fully spoken transcript.
	for i := 1; i < len(words); i++ {
		gapStart := words[i-1].End
		gapEnd := words[i].Start
		if gapEnd-gapStart <= minGap {
			continue
		}
		if trimmed, err := applyCut(segs, gapStart, gapEnd); err == nil {
			segs = trimmed
		}
	}
	return segs
}

func applyRemoveFiller(segs []Segment, words []store.Word, fillers []string) []Segment {
	set := make(map[string]struct{}, len(fillers))
	for _, f := range fillers {
		set[normalizeWord(f)] = struct{}{}
	}
	for _, w := range words {
		if _, ok := set[normalizeWord(w.Text)]; !ok {
			continue
		}
		if w.End <= w.Start {
			continue
		}
		if trimmed, err := applyCut(segs, w.Start, w.End); err == nil {
			segs = trimmed
		}
	}
	return segs
}

func applyAdjustPacing(segs []Segment, start, end, factor float64) ([]Segment, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("speed factor must be positive, got %g", factor)
	}
	// A zero range means the whole timeline.
	if start == 0 && end == 0 {
		result := make([]Segment, len(segs))
		for i, seg := range segs {
			seg.Transform = mergeTransform(seg.Transform, Transform{Speed: factor})
			result[i] = seg
		}
		return result, nil
	}
	if end <= start {
		return nil, fmt.Errorf("empty range [%g,%g]", start, end)
	}
	result := make([]Segment, 0, len(segs)+2)
	touched := false
	for _, seg := range segs {
		if end <= seg.SourceStart+epsilon || start >= seg.SourceEnd-epsilon {
			result = append(result, seg)
			continue
		}
		touched = true
		if start > seg.SourceStart+epsilon {
			left := seg
			left.SourceEnd = start
			result = append(result, left)
		}
		mid := seg
		if start > mid.SourceStart {
			mid.SourceStart = start
		}
		if end < mid.SourceEnd {
			mid.SourceEnd = end
		}
		mid.Transform = mergeTransform(seg.Transform, Transform{Speed: factor})
		result = append(result, mid)
		if end < seg.SourceEnd-epsilon {
			right := seg
			right.SourceStart = end
			result = append(result, right)
		}
	}
	if !touched {
		return nil, fmt.Errorf("range [%g,%g] resolves to no retained material", start, end)
	}
	return result, nil
}

func mergeTransform(base *Transform, overlay Transform) *Transform {
	merged := Transform{}
	if base != nil {
		merged = *base
	}
	if overlay.OverlayText != "" {
		merged.OverlayText = overlay.OverlayText
	}
	if overlay.Speed > 0 {
		merged.Speed = overlay.Speed
	}
	return &merged
}

func normalizeWord(text string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(text), ".,!?;:"))
}
