package voice_test

import (
	"context"
	"errors"
	"testing"

	"recut/internal/logging"
	"recut/internal/recipe"
	"recut/internal/services"
	"recut/internal/store"
	"recut/internal/voice"
)

type fakeCompiler struct {
	recipe *store.Recipe
	err    error
	last   recipe.CompileRequest
}

func (f *fakeCompiler) Compile(_ context.Context, req recipe.CompileRequest) (*store.Recipe, error) {
	f.last = req
	return f.recipe, f.err
}

type fakeRenderer struct {
	render *store.Render
	err    error
	calls  int
	taskID string
	kind   store.RenderKind
}

func (f *fakeRenderer) ExecuteAndRender(_ context.Context, _, _, taskID string, kind store.RenderKind) (*store.Render, error) {
	f.calls++
	f.taskID = taskID
	f.kind = kind
	return f.render, f.err
}

func compiledRecipe() *store.Recipe {
	return &store.Recipe{ID: "rec-1", TranscriptID: "tr-1", Version: 1}
}

func TestProcessCommandCompilesOnly(t *testing.T) {
	compiler := &fakeCompiler{recipe: compiledRecipe()}
	renderer := &fakeRenderer{}
	bridge := voice.NewBridge(compiler, renderer, logging.NewNop())

	result, err := bridge.ProcessCommand(context.Background(), voice.Command{
		Text:         "cut from 10 to 20",
		TranscriptID: "tr-1",
		TaskID:       "task-1",
	})
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if result.Recipe == nil || result.Render != nil || result.RenderError != "" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if renderer.calls != 0 {
		t.Fatal("render must not start without autoRender")
	}
	if compiler.last.DeliverableID != "task-1" {
		t.Fatalf("expected task to own the recipe chain, got %q", compiler.last.DeliverableID)
	}
}

func TestProcessCommandAutoRenders(t *testing.T) {
	compiler := &fakeCompiler{recipe: compiledRecipe()}
	renderer := &fakeRenderer{render: &store.Render{ID: "ren-1", Status: store.RenderQueued}}
	bridge := voice.NewBridge(compiler, renderer, logging.NewNop())

	result, err := bridge.ProcessCommand(context.Background(), voice.Command{
		Text:         "cut from 10 to 20 and render a preview",
		TranscriptID: "tr-1",
		TaskID:       "task-1",
		AutoRender:   true,
	})
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if result.Render == nil || result.Render.ID != "ren-1" {
		t.Fatalf("expected render started, got %#v", result)
	}
	if renderer.taskID != "task-1" || renderer.kind != store.RenderPreview {
		t.Fatalf("unexpected render call: task=%q kind=%q", renderer.taskID, renderer.kind)
	}
}

func TestProcessCommandKeepsRecipeOnRenderFailure(t *testing.T) {
	compiler := &fakeCompiler{recipe: compiledRecipe()}
	renderer := &fakeRenderer{err: errors.New("farm rejected the job")}
	bridge := voice.NewBridge(compiler, renderer, logging.NewNop())

	result, err := bridge.ProcessCommand(context.Background(), voice.Command{
		Text:       "cut from 10 to 20",
		TaskID:     "task-1",
		AutoRender: true,
	})
	if err != nil {
		t.Fatalf("partial failure must not error: %v", err)
	}
	if result.Recipe == nil {
		t.Fatal("compiled recipe must survive render failure")
	}
	if result.Render != nil || result.RenderError == "" {
		t.Fatalf("expected render error in result, got %#v", result)
	}
}

func TestProcessCommandAutoRenderWithoutTask(t *testing.T) {
	compiler := &fakeCompiler{recipe: compiledRecipe()}
	renderer := &fakeRenderer{}
	bridge := voice.NewBridge(compiler, renderer, logging.NewNop())

	result, err := bridge.ProcessCommand(context.Background(), voice.Command{
		Text:       "remove filler words",
		AutoRender: true,
	})
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if renderer.calls != 0 {
		t.Fatal("auto-render without a task must not submit")
	}
	if result.RenderError == "" {
		t.Fatal("expected render error explaining missing task")
	}
}

func TestProcessCommandValidation(t *testing.T) {
	bridge := voice.NewBridge(&fakeCompiler{}, &fakeRenderer{}, logging.NewNop())

	_, err := bridge.ProcessCommand(context.Background(), voice.Command{Text: "   "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessCommandSurfacesCompileFailure(t *testing.T) {
	compiler := &fakeCompiler{err: services.Wrap(services.ErrValidation, "recipe", "compile", "bad input", nil)}
	bridge := voice.NewBridge(compiler, &fakeRenderer{}, logging.NewNop())

	_, err := bridge.ProcessCommand(context.Background(), voice.Command{Text: "do something"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected compile error surfaced, got %v", err)
	}
}
