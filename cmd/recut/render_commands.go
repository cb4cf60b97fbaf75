package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type renderView struct {
	ID            string `json:"id"`
	DeliverableID string `json:"deliverableId"`
	RecipeID      string `json:"recipeId"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	ProviderJobID string `json:"providerJobId"`
	AssetID       string `json:"assetId"`
	ErrorMessage  string `json:"errorMessage"`
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Submit and track render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newRenderSubmitCommand(ctx))
	cmd.AddCommand(newRenderStatusCommand(ctx))
	return cmd
}

func newRenderSubmitCommand(ctx *commandContext) *cobra.Command {
	var recipeID string
	var transcriptID string
	var scriptPath string
	var quality string
	var deliverableID string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a render job from a recipe or an edit script",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			payload := map[string]any{
				"quality":       quality,
				"deliverableId": deliverableID,
			}
			switch {
			case scriptPath != "":
				script, err := os.ReadFile(scriptPath)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				payload["script"] = string(script)
			case recipeID != "" && transcriptID != "":
				payload["recipeId"] = recipeID
				payload["transcriptId"] = transcriptID
			default:
				return fmt.Errorf("either --script or --recipe with --transcript is required")
			}

			var view renderView
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/renders", payload, &view); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Render %s submitted (%s, job %s)\n", view.ID, view.Kind, view.ProviderJobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&recipeID, "recipe", "", "Recipe to execute and render")
	cmd.Flags().StringVar(&transcriptID, "transcript", "", "Transcript the recipe executes against")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to a provider edit script")
	cmd.Flags().StringVar(&quality, "quality", "preview", "Render quality (preview or final)")
	cmd.Flags().StringVar(&deliverableID, "deliverable", "", "Deliverable that owns the render")
	return cmd
}

func newRenderStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <render-id>",
		Short: "Show the current status of a render job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view renderView
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/renders/"+args[0], nil, &view); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Render %s: %s (%s)\n", view.ID, view.Status, view.Kind)
			if view.AssetID != "" {
				fmt.Fprintf(out, "Asset: %s\n", view.AssetID)
			}
			if view.ErrorMessage != "" {
				fmt.Fprintf(out, "Error: %s\n", view.ErrorMessage)
			}
			return nil
		},
	}
}
