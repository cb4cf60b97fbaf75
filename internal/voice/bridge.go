// Package voice bridges spoken or dictated editing commands into the
// compile-and-render flow. A command compiles a recipe and may optionally
// kick off a render owned by the caller's task.
package voice

import (
	"context"
	"log/slog"
	"strings"

	"recut/internal/logging"
	"recut/internal/recipe"
	"recut/internal/services"
	"recut/internal/store"
)

const component = "voice"

// Compiler compiles command text into a stored recipe.
type Compiler interface {
	Compile(ctx context.Context, req recipe.CompileRequest) (*store.Recipe, error)
}

// Renderer executes a recipe and submits the result for rendering.
type Renderer interface {
	ExecuteAndRender(ctx context.Context, recipeID, transcriptID, taskID string, kind store.RenderKind) (*store.Render, error)
}

// Bridge processes voice commands.
type Bridge struct {
	compiler Compiler
	renderer Renderer
	logger   *slog.Logger
}

// NewBridge constructs a voice command bridge.
func NewBridge(compiler Compiler, renderer Renderer, logger *slog.Logger) *Bridge {
	return &Bridge{
		compiler: compiler,
		renderer: renderer,
		logger:   logging.WithComponent(logger, component),
	}
}

// Command is one spoken editing instruction.
type Command struct {
	Text         string
	TranscriptID string
	TaskID       string
	AutoRender   bool
	RenderKind   store.RenderKind
}

// Result is the outcome of a command. Render is set when auto-render was
// requested and succeeded; RenderError carries a partial failure where the
// recipe compiled but the render could not be started.
type Result struct {
	Recipe      *store.Recipe
	Render      *store.Render
	RenderError string
}

// ProcessCommand compiles the command into a recipe and, when asked and a
// task owns the work, starts a render. A render failure does not discard the
// compiled recipe.
func (b *Bridge) ProcessCommand(ctx context.Context, cmd Command) (*Result, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return nil, services.Wrap(services.ErrValidation, component, "command", "command text is required", nil)
	}

	compiled, err := b.compiler.Compile(ctx, recipe.CompileRequest{
		Instructions:  text,
		TranscriptID:  cmd.TranscriptID,
		DeliverableID: cmd.TaskID,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Recipe: compiled}
	if !cmd.AutoRender {
		return result, nil
	}
	if cmd.TaskID == "" {
		result.RenderError = "auto-render requires a task to own the render"
		return result, nil
	}

	kind := cmd.RenderKind
	if kind == "" {
		kind = store.RenderPreview
	}
	submitted, err := b.renderer.ExecuteAndRender(ctx, compiled.ID, compiled.TranscriptID, cmd.TaskID, kind)
	if err != nil {
		b.logger.Warn("auto-render failed after compile",
			logging.String(logging.FieldRecipeID, compiled.ID),
			logging.Error(err),
		)
		result.RenderError = err.Error()
		return result, nil
	}
	result.Render = submitted
	return result, nil
}
