package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type transcriptView struct {
	ID              string  `json:"id"`
	DeliverableID   string  `json:"deliverableId"`
	AssetURL        string  `json:"assetUrl"`
	FullText        string  `json:"fullText"`
	DurationSeconds float64 `json:"durationSeconds"`
	Words           []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var deliverableID string

	cmd := &cobra.Command{
		Use:   "transcribe <media-url>",
		Short: "Transcribe a media asset into a word-level transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var view transcriptView
			err = client.do(cmd.Context(), http.MethodPost, "/api/v1/transcripts", map[string]any{
				"assetUrl":      args[0],
				"deliverableId": deliverableID,
			}, &view)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcript %s (%d words, %.1fs)\n", view.ID, len(view.Words), view.DurationSeconds)
			fmt.Fprintln(out, view.FullText)
			return nil
		},
	}
	cmd.Flags().StringVar(&deliverableID, "deliverable", "", "Deliverable the transcript belongs to")
	return cmd
}
