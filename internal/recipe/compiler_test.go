package recipe

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/store"
	"recut/internal/testsupport"
)

func TestBuiltinRulesetPhrases(t *testing.T) {
	ruleset := newBuiltinRuleset([]string{"um", "uh"}, 0.75)
	cases := []struct {
		name         string
		instructions string
		want         []store.Operation
	}{
		{
			name:         "cut range",
			instructions: "Cut from 10 to 20",
			want:         []store.Operation{{Kind: store.OpCut, Start: 10, End: 20}},
		},
		{
			name:         "cut with timecodes",
			instructions: "remove the part from 1:30 to 2:15",
			want:         []store.Operation{{Kind: store.OpCut, Start: 90, End: 135}},
		},
		{
			name:         "trim",
			instructions: "keep only from 5 to 45.5",
			want:         []store.Operation{{Kind: store.OpTrim, Start: 5, End: 45.5}},
		},
		{
			name:         "reorder",
			instructions: "move segment 2 to position 0",
			want:         []store.Operation{{Kind: store.OpReorder, From: 2, To: 0}},
		},
		{
			name:         "overlay",
			instructions: `add text "Chapter One" from 0 to 5`,
			want:         []store.Operation{{Kind: store.OpOverlay, Start: 0, End: 5, Text: "Chapter One"}},
		},
		{
			name:         "silence with threshold",
			instructions: "remove pauses longer than 1.5 seconds",
			want:         []store.Operation{{Kind: store.OpRemoveSilence, MinGap: 1.5}},
		},
		{
			name:         "silence default threshold",
			instructions: "remove the silences",
			want:         []store.Operation{{Kind: store.OpRemoveSilence, MinGap: 0.75}},
		},
		{
			name:         "filler defaults",
			instructions: "remove filler words",
			want:         []store.Operation{{Kind: store.OpRemoveFiller, Words: []string{"um", "uh"}}},
		},
		{
			name:         "filler listed",
			instructions: "remove filler words like basically, actually",
			want:         []store.Operation{{Kind: store.OpRemoveFiller, Words: []string{"basically", "actually"}}},
		},
		{
			name:         "speed up",
			instructions: "speed up by 2x",
			want:         []store.Operation{{Kind: store.OpAdjustPacing, Factor: 2}},
		},
		{
			name:         "slow down range",
			instructions: "slow down from 10 to 20 by 2x",
			want:         []store.Operation{{Kind: store.OpAdjustPacing, Start: 10, End: 20, Factor: 0.5}},
		},
		{
			name:         "ordered clauses",
			instructions: "Cut from 10 to 20, then move segment 1 to position 0. Remove filler words.",
			want: []store.Operation{
				{Kind: store.OpCut, Start: 10, End: 20},
				{Kind: store.OpReorder, From: 1, To: 0},
				{Kind: store.OpRemoveFiller, Words: []string{"um", "uh"}},
			},
		},
		{
			name:         "unparseable clause skipped",
			instructions: "make it feel more cinematic. cut from 5 to 10",
			want:         []store.Operation{{Kind: store.OpCut, Start: 5, End: 10}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ruleset.Plan(context.Background(), tc.instructions, nil)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Plan(%q)\n got: %#v\nwant: %#v", tc.instructions, got, tc.want)
			}
		})
	}
}

func TestCompileBuildsVersionChain(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	compiler := NewCompiler(db, logging.NewNop())
	ctx := context.Background()

	first, err := compiler.Compile(ctx, CompileRequest{
		Instructions:   "cut from 10 to 20",
		TranscriptText: "the cat sat on the mat",
		DeliverableID:  "dlv-1",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("expected version 1, got %d", first.Version)
	}
	if first.CompilerRevision != builtinRevision {
		t.Fatalf("unexpected revision %q", first.CompilerRevision)
	}

	second, err := compiler.Compile(ctx, CompileRequest{
		Instructions:   "cut from 10 to 20 and remove filler words",
		TranscriptText: "the cat sat on the mat",
		DeliverableID:  "dlv-1",
	})
	if err != nil {
		t.Fatalf("Compile second: %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("expected version 2, got %d", second.Version)
	}
	if second.ID == first.ID {
		t.Fatal("recompile must create a new recipe, not mutate")
	}

	loaded, err := compiler.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(loaded.Operations, first.Operations) {
		t.Fatalf("version 1 changed after recompile: %#v", loaded.Operations)
	}

	latest, err := compiler.Latest(ctx, "dlv-1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Version != 2 {
		t.Fatalf("expected latest version 2, got %d", latest.Version)
	}
}

func TestCompileRequiresInstructions(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	compiler := NewCompiler(db, logging.NewNop())

	_, err := compiler.Compile(context.Background(), CompileRequest{Instructions: "   "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.Kind(err) != services.KindInvalidInput {
		t.Fatalf("unexpected kind for %v", err)
	}
}

func TestCompileRequiresTranscriptContext(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	compiler := NewCompiler(db, logging.NewNop())

	// Neither a transcript id nor ad-hoc text: the compile must be rejected
	// before anything is persisted.
	_, err := compiler.Compile(context.Background(), CompileRequest{Instructions: "cut from 1 to 2"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.Kind(err) != services.KindInvalidInput {
		t.Fatalf("unexpected kind for %v", err)
	}

	recipes, listErr := compiler.ByDeliverable(context.Background(), "")
	if listErr != nil {
		t.Fatalf("ByDeliverable: %v", listErr)
	}
	if len(recipes) != 0 {
		t.Fatalf("rejected compile persisted %d recipes", len(recipes))
	}
}

func TestCompileUnknownTranscript(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	compiler := NewCompiler(db, logging.NewNop())

	_, err := compiler.Compile(context.Background(), CompileRequest{
		Instructions: "cut from 1 to 2",
		TranscriptID: "missing",
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompileDropsOutOfRangeFragments(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	seeded := testsupport.SeedTranscript(t, db, "dlv-1", testsupport.ThreeWordTranscript(), 1.0)
	compiler := NewCompiler(db, logging.NewNop())

	// The seeded transcript is one second long; the second cut starts
	// beyond it and must be dropped, not fail the compile.
	recipe, err := compiler.Compile(context.Background(), CompileRequest{
		Instructions:  "cut from 0.3 to 0.6. cut from 100 to 200",
		TranscriptID:  seeded.ID,
		DeliverableID: "dlv-1",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(recipe.Operations) != 1 {
		t.Fatalf("expected out-of-range fragment dropped, got %#v", recipe.Operations)
	}
	if recipe.Operations[0].Kind != store.OpCut || recipe.Operations[0].End != 0.6 {
		t.Fatalf("unexpected surviving operation: %#v", recipe.Operations[0])
	}
}

func TestCompileClampsRangeToDuration(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	seeded := testsupport.SeedTranscript(t, db, "dlv-1", testsupport.ThreeWordTranscript(), 1.0)
	compiler := NewCompiler(db, logging.NewNop())

	recipe, err := compiler.Compile(context.Background(), CompileRequest{
		Instructions: "cut from 0.5 to 30",
		TranscriptID: seeded.ID,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(recipe.Operations) != 1 || recipe.Operations[0].End != 1.0 {
		t.Fatalf("expected end clamped to duration, got %#v", recipe.Operations)
	}
}

type fakeLLM struct {
	content string
	err     error
}

func (f *fakeLLM) CompleteJSON(context.Context, string, string) (string, error) {
	return f.content, f.err
}

func (f *fakeLLM) Model() string { return "test-model" }

func TestCompileWithLLMRuleset(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	client := &fakeLLM{content: `{"operations":[{"kind":"cut","start":1,"end":2},{"kind":"explode"}]}`}
	compiler := NewCompiler(db, logging.NewNop(), WithLLM(client))

	recipe, err := compiler.Compile(context.Background(), CompileRequest{
		Instructions:   "cut the boring part",
		TranscriptText: "the cat sat on the mat",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if recipe.CompilerRevision != "llm-test-model" {
		t.Fatalf("unexpected revision %q", recipe.CompilerRevision)
	}
	if len(recipe.Operations) != 1 || recipe.Operations[0].Kind != store.OpCut {
		t.Fatalf("expected unknown kind dropped, got %#v", recipe.Operations)
	}
}

func TestCompileSurfacesLLMFailure(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	client := &fakeLLM{err: errors.New("model unavailable")}
	compiler := NewCompiler(db, logging.NewNop(), WithLLM(client))

	req := CompileRequest{
		Instructions:   "cut from 1 to 2",
		TranscriptText: "the cat sat on the mat",
	}
	if _, err := compiler.Compile(context.Background(), req); err == nil {
		t.Fatal("expected planning failure to surface")
	}
}
