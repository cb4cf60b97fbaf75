package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type operationView struct {
	Kind   string   `json:"kind"`
	Start  float64  `json:"start"`
	End    float64  `json:"end"`
	From   int      `json:"from"`
	To     int      `json:"to"`
	Text   string   `json:"text"`
	MinGap float64  `json:"minGap"`
	Words  []string `json:"words"`
	Factor float64  `json:"factor"`
}

type recipeView struct {
	ID               string          `json:"id"`
	DeliverableID    string          `json:"deliverableId"`
	TranscriptID     string          `json:"transcriptId"`
	Instructions     string          `json:"instructions"`
	Version          int64           `json:"version"`
	Operations       []operationView `json:"operations"`
	CompilerRevision string          `json:"compilerRevision"`
}

func newRecipeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Compile and inspect edit recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newRecipeCompileCommand(ctx))
	cmd.AddCommand(newRecipeShowCommand(ctx))
	cmd.AddCommand(newRecipeListCommand(ctx))
	return cmd
}

func newRecipeCompileCommand(ctx *commandContext) *cobra.Command {
	var transcriptID string
	var deliverableID string

	cmd := &cobra.Command{
		Use:   "compile <instructions>",
		Short: "Compile natural-language instructions into a recipe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view recipeView
			err = client.do(cmd.Context(), http.MethodPost, "/api/v1/recipes", map[string]any{
				"instructions":  strings.Join(args, " "),
				"transcriptId":  transcriptID,
				"deliverableId": deliverableID,
			}, &view)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recipe %s version %d (%s)\n", view.ID, view.Version, view.CompilerRevision)
			fmt.Fprintln(out, renderOperations(view.Operations))
			return nil
		},
	}
	cmd.Flags().StringVar(&transcriptID, "transcript", "", "Transcript the instructions refer to")
	cmd.Flags().StringVar(&deliverableID, "deliverable", "", "Deliverable whose version chain receives the recipe")
	return cmd
}

func newRecipeShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe and its operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view recipeView
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/recipes/"+args[0], nil, &view); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recipe %s version %d (%s)\n", view.ID, view.Version, view.CompilerRevision)
			fmt.Fprintf(out, "Instructions: %s\n", view.Instructions)
			fmt.Fprintln(out, renderOperations(view.Operations))
			return nil
		},
	}
}

func newRecipeListCommand(ctx *commandContext) *cobra.Command {
	var deliverableID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a deliverable's recipe version chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var resp struct {
				Recipes []recipeView `json:"recipes"`
			}
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/recipes?deliverableId="+deliverableID, nil, &resp); err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Recipes))
			for _, r := range resp.Recipes {
				rows = append(rows, []string{
					strconv.FormatInt(r.Version, 10),
					r.ID,
					strconv.Itoa(len(r.Operations)),
					r.CompilerRevision,
					truncate(r.Instructions, 60),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Version", "ID", "Ops", "Revision", "Instructions"},
				rows,
				0, 2,
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&deliverableID, "deliverable", "", "Deliverable to list recipes for")
	return cmd
}

func renderOperations(ops []operationView) string {
	rows := make([][]string, 0, len(ops))
	for i, op := range ops {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			op.Kind,
			describeOperation(op),
		})
	}
	return renderTable(
		[]string{"#", "Kind", "Detail"},
		rows,
		0,
	)
}

func describeOperation(op operationView) string {
	switch op.Kind {
	case "cut", "trim":
		return fmt.Sprintf("%.2fs - %.2fs", op.Start, op.End)
	case "reorder":
		return fmt.Sprintf("segment %d -> position %d", op.From, op.To)
	case "overlay":
		return fmt.Sprintf("%q at %.2fs - %.2fs", op.Text, op.Start, op.End)
	case "remove_silence":
		return fmt.Sprintf("gaps > %.2fs", op.MinGap)
	case "remove_filler":
		return strings.Join(op.Words, ", ")
	case "adjust_pacing":
		if op.Start == 0 && op.End == 0 {
			return fmt.Sprintf("%.2fx", op.Factor)
		}
		return fmt.Sprintf("%.2fx at %.2fs - %.2fs", op.Factor, op.Start, op.End)
	default:
		encoded, _ := json.Marshal(op)
		return string(encoded)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
