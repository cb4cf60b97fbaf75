package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

type healthView struct {
	EditorHealthy    bool `json:"editorHealthy"`
	GeneratorHealthy bool `json:"generatorHealthy"`
	Renders          struct {
		Total     int `json:"total"`
		Queued    int `json:"queued"`
		Rendering int `json:"rendering"`
		Completed int `json:"completed"`
		Failed    int `json:"failed"`
	} `json:"renders"`
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show collaborator health and render counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view healthView
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/health", nil, &view); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Editor (speech):      %s\n", healthLabel(view.EditorHealthy))
			fmt.Fprintf(out, "Generator (renderer): %s\n", healthLabel(view.GeneratorHealthy))
			fmt.Fprintln(out, renderTable(
				[]string{"Total", "Queued", "Rendering", "Completed", "Failed"},
				[][]string{{
					strconv.Itoa(view.Renders.Total),
					strconv.Itoa(view.Renders.Queued),
					strconv.Itoa(view.Renders.Rendering),
					strconv.Itoa(view.Renders.Completed),
					strconv.Itoa(view.Renders.Failed),
				}},
				0, 1, 2, 3, 4,
			))
			return nil
		},
	}
}

func healthLabel(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unreachable"
}
