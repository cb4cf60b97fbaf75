package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

type commandResultView struct {
	Recipe      recipeView  `json:"recipe"`
	Render      *renderView `json:"render"`
	RenderError string      `json:"renderError"`
}

func newCommandCommand(ctx *commandContext) *cobra.Command {
	var transcriptID string
	var taskID string
	var autoRender bool
	var quality string

	cmd := &cobra.Command{
		Use:   "command <text>",
		Short: "Process a voice-style editing command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view commandResultView
			err = client.do(cmd.Context(), http.MethodPost, "/api/v1/commands", map[string]any{
				"command":      strings.Join(args, " "),
				"transcriptId": transcriptID,
				"taskId":       taskID,
				"autoRender":   autoRender,
				"quality":      quality,
			}, &view)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recipe %s version %d\n", view.Recipe.ID, view.Recipe.Version)
			fmt.Fprintln(out, renderOperations(view.Recipe.Operations))
			switch {
			case view.Render != nil:
				fmt.Fprintf(out, "Render %s submitted (%s)\n", view.Render.ID, view.Render.Status)
			case view.RenderError != "":
				fmt.Fprintf(out, "Render not started: %s\n", view.RenderError)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&transcriptID, "transcript", "", "Transcript the command refers to")
	cmd.Flags().StringVar(&taskID, "task", "", "Task that owns any auto-render")
	cmd.Flags().BoolVar(&autoRender, "auto-render", false, "Start a render when the command compiles")
	cmd.Flags().StringVar(&quality, "quality", "", "Render quality (preview or final)")
	return cmd
}
