// Package recipe compiles natural-language editing instructions into
// versioned, ordered operation lists. Compilation never mutates an existing
// recipe; every compile appends the next version to the deliverable's chain.
package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/store"
)

const component = "recipe"

// Repository is the persistence surface the compiler needs.
type Repository interface {
	InsertRecipe(ctx context.Context, r *store.Recipe) error
	GetRecipe(ctx context.Context, id string) (*store.Recipe, error)
	RecipesByDeliverable(ctx context.Context, deliverableID string) ([]*store.Recipe, error)
	LatestRecipe(ctx context.Context, deliverableID string) (*store.Recipe, error)
	GetTranscript(ctx context.Context, id string) (*store.Transcript, error)
}

// Compiler turns instructions into stored recipes.
type Compiler struct {
	repo    Repository
	ruleset Ruleset
	fillers []string
	minGap  float64
	logger  *slog.Logger
}

// Option customizes the compiler.
type Option func(*Compiler)

// WithLLM switches planning from the builtin pattern ruleset to the model.
func WithLLM(client LLMClient) Option {
	return func(c *Compiler) {
		if client != nil {
			c.ruleset = newLLMRuleset(client)
		}
	}
}

// WithFillerWords overrides the default filler vocabulary applied when an
// instruction asks for filler removal without naming words.
func WithFillerWords(words []string) Option {
	return func(c *Compiler) {
		if len(words) > 0 {
			c.fillers = words
		}
	}
}

// WithSilenceMinGap overrides the default silence threshold in seconds.
func WithSilenceMinGap(seconds float64) Option {
	return func(c *Compiler) {
		if seconds > 0 {
			c.minGap = seconds
		}
	}
}

// NewCompiler constructs a compiler using the builtin ruleset unless an LLM
// client is supplied.
func NewCompiler(repo Repository, logger *slog.Logger, opts ...Option) *Compiler {
	c := &Compiler{
		repo:    repo,
		fillers: []string{"um", "uh", "erm", "hmm"},
		minGap:  0.75,
		logger:  logging.WithComponent(logger, component),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ruleset == nil {
		c.ruleset = newBuiltinRuleset(c.fillers, c.minGap)
	}
	return c
}

// CompileRequest carries one compilation. At least one of TranscriptID or
// TranscriptText must be set: TranscriptID resolves a stored transcript,
// TranscriptText supplies ad-hoc context when no stored transcript exists
// yet.
type CompileRequest struct {
	Instructions   string
	TranscriptID   string
	TranscriptText string
	DeliverableID  string
}

// Compile plans the instructions into operations, drops fragments that
// cannot be resolved against the transcript, and persists the result as the
// next version in the deliverable's chain.
func (c *Compiler) Compile(ctx context.Context, req CompileRequest) (*store.Recipe, error) {
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		return nil, services.Wrap(services.ErrValidation, component, "compile", "instructions are required", nil)
	}

	text := strings.TrimSpace(req.TranscriptText)
	id := strings.TrimSpace(req.TranscriptID)
	if text == "" && id == "" {
		return nil, services.Wrap(services.ErrValidation, component, "compile", "transcript text or transcript id is required", nil)
	}

	var transcript *store.Transcript
	if text != "" {
		// Ad-hoc text gives the planner context but no duration, so range
		// checks stay off.
		transcript = &store.Transcript{FullText: text}
	}
	if id != "" {
		loaded, err := c.repo.GetTranscript(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("compile: load transcript: %w", err)
		}
		if loaded == nil {
			return nil, services.Wrap(services.ErrNotFound, component, "compile", fmt.Sprintf("transcript %s", id), nil)
		}
		transcript = loaded
	}

	planned, err := c.ruleset.Plan(ctx, instructions, transcript)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "compile", "instruction planning failed", err)
	}

	ops, dropped := c.sanitize(planned, transcript)
	if dropped > 0 {
		c.logger.Warn("dropped unresolvable operations",
			logging.Int("dropped", dropped),
			logging.Int("kept", len(ops)),
		)
	}

	recipe := &store.Recipe{
		DeliverableID:    strings.TrimSpace(req.DeliverableID),
		TranscriptID:     id,
		Instructions:     instructions,
		Operations:       ops,
		CompilerRevision: c.ruleset.Revision(),
	}
	if err := c.repo.InsertRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("compile: persist recipe: %w", err)
	}
	c.logger.Info("recipe compiled",
		logging.String(logging.FieldRecipeID, recipe.ID),
		logging.String(logging.FieldDeliverableID, recipe.DeliverableID),
		logging.Int64("version", recipe.Version),
		logging.Int("operations", len(recipe.Operations)),
		logging.String("revision", recipe.CompilerRevision),
	)
	return recipe, nil
}

// Get returns a recipe by id, or a not-found error.
func (c *Compiler) Get(ctx context.Context, id string) (*store.Recipe, error) {
	recipe, err := c.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "get", fmt.Sprintf("recipe %s", id), nil)
	}
	return recipe, nil
}

// ByDeliverable returns the deliverable's version chain, oldest first.
func (c *Compiler) ByDeliverable(ctx context.Context, deliverableID string) ([]*store.Recipe, error) {
	recipes, err := c.repo.RecipesByDeliverable(ctx, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Latest returns the newest recipe for a deliverable, or a not-found error
// when the chain is empty.
func (c *Compiler) Latest(ctx context.Context, deliverableID string) (*store.Recipe, error) {
	recipe, err := c.repo.LatestRecipe(ctx, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("latest recipe: %w", err)
	}
	if recipe == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "latest", fmt.Sprintf("no recipes for deliverable %s", deliverableID), nil)
	}
	return recipe, nil
}

// sanitize enforces best-effort compilation: operation fragments that cannot
// be resolved are dropped, never failed. Range checks only apply when a
// transcript supplies a duration.
func (c *Compiler) sanitize(planned []store.Operation, transcript *store.Transcript) ([]store.Operation, int) {
	duration := 0.0
	if transcript != nil {
		duration = transcript.DurationSeconds
		if duration <= 0 && len(transcript.Words) > 0 {
			duration = transcript.Words[len(transcript.Words)-1].End
		}
	}

	ops := make([]store.Operation, 0, len(planned))
	dropped := 0
	for _, op := range planned {
		if !store.KnownOpKind(op.Kind) {
			dropped++
			continue
		}
		switch op.Kind {
		case store.OpCut, store.OpTrim, store.OpOverlay:
			if op.End <= op.Start || op.Start < 0 {
				dropped++
				continue
			}
			if duration > 0 {
				if op.Start >= duration {
					dropped++
					continue
				}
				if op.End > duration {
					op.End = duration
				}
			}
			if op.Kind == store.OpOverlay && strings.TrimSpace(op.Text) == "" {
				dropped++
				continue
			}
		case store.OpReorder:
			if op.From < 0 || op.To < 0 {
				dropped++
				continue
			}
		case store.OpRemoveSilence:
			if op.MinGap <= 0 {
				op.MinGap = c.minGap
			}
		case store.OpRemoveFiller:
			if len(op.Words) == 0 {
				op.Words = c.fillers
			}
		case store.OpAdjustPacing:
			if op.Factor <= 0 {
				dropped++
				continue
			}
			if op.Start != 0 || op.End != 0 {
				if op.End <= op.Start || op.Start < 0 {
					dropped++
					continue
				}
				if duration > 0 && op.Start >= duration {
					dropped++
					continue
				}
				if duration > 0 && op.End > duration {
					op.End = duration
				}
			}
		}
		ops = append(ops, op)
	}
	return ops, dropped
}
