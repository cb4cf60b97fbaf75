package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

type timelineView struct {
	TranscriptID  string  `json:"transcriptId"`
	RecipeID      string  `json:"recipeId"`
	OutputSeconds float64 `json:"outputSeconds"`
	Segments      []struct {
		SourceStart float64 `json:"sourceStart"`
		SourceEnd   float64 `json:"sourceEnd"`
		OutputOrder int     `json:"outputOrder"`
		Transform   *struct {
			OverlayText string  `json:"overlayText"`
			Speed       float64 `json:"speed"`
		} `json:"transform"`
	} `json:"segments"`
}

func newExecuteCommand(ctx *commandContext) *cobra.Command {
	var transcriptID string

	cmd := &cobra.Command{
		Use:   "execute <recipe-id>",
		Short: "Execute a recipe against a transcript and show the timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view timelineView
			err = client.do(cmd.Context(), http.MethodPost, "/api/v1/recipes/"+args[0]+"/execute", map[string]any{
				"transcriptId": transcriptID,
			}, &view)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(view.Segments))
			for _, seg := range view.Segments {
				transform := ""
				if seg.Transform != nil {
					if seg.Transform.OverlayText != "" {
						transform = fmt.Sprintf("overlay %q", seg.Transform.OverlayText)
					}
					if seg.Transform.Speed > 0 {
						if transform != "" {
							transform += ", "
						}
						transform += fmt.Sprintf("%.2fx", seg.Transform.Speed)
					}
				}
				rows = append(rows, []string{
					strconv.Itoa(seg.OutputOrder),
					fmt.Sprintf("%.2fs", seg.SourceStart),
					fmt.Sprintf("%.2fs", seg.SourceEnd),
					transform,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Order", "Start", "End", "Transform"},
				rows,
				0, 1, 2,
			))
			fmt.Fprintf(out, "Output duration: %.2fs\n", view.OutputSeconds)
			return nil
		},
	}
	cmd.Flags().StringVar(&transcriptID, "transcript", "", "Transcript to execute against")
	cmd.MarkFlagRequired("transcript") //nolint:errcheck
	return cmd
}
