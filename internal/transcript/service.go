// Package transcript ingests media through the external transcription
// service and persists the resulting word-level transcripts.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/services/speech"
	"recut/internal/store"
)

const component = "transcript"

// Transcriber is the collaborator that turns media into timed words.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (*speech.Result, error)
	Health(ctx context.Context) error
}

// Repository is the persistence surface the service needs.
type Repository interface {
	InsertTranscript(ctx context.Context, t *store.Transcript) error
	GetTranscript(ctx context.Context, id string) (*store.Transcript, error)
	TranscriptsByDeliverable(ctx context.Context, deliverableID string) ([]*store.Transcript, error)
}

// Service coordinates transcription and storage.
type Service struct {
	repo        Repository
	transcriber Transcriber
	logger      *slog.Logger
}

// NewService constructs the transcript service.
func NewService(repo Repository, transcriber Transcriber, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		transcriber: transcriber,
		logger:      logging.WithComponent(logger, component),
	}
}

// TranscribeRequest identifies the media to transcribe and the deliverable
// the transcript belongs to.
type TranscribeRequest struct {
	MediaURL      string
	DeliverableID string
}

// Transcribe sends the media to the transcription service, normalizes the
// returned words, and persists an immutable transcript. Calling it again for
// the same media produces a new transcript.
func (s *Service) Transcribe(ctx context.Context, req TranscribeRequest) (*store.Transcript, error) {
	mediaURL := strings.TrimSpace(req.MediaURL)
	if mediaURL == "" {
		return nil, services.Wrap(services.ErrValidation, component, "transcribe", "media url is required", nil)
	}

	result, err := s.transcriber.Transcribe(ctx, mediaURL)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, component, "transcribe", "transcription service failed", err)
	}

	words := normalizeWords(result.Words)
	if len(words) == 0 {
		return nil, services.Wrap(services.ErrTranscription, component, "transcribe", "transcription produced no usable words", nil)
	}

	transcript := &store.Transcript{
		DeliverableID:   strings.TrimSpace(req.DeliverableID),
		AssetURL:        mediaURL,
		Words:           words,
		DurationSeconds: result.DurationSeconds,
	}
	if transcript.DurationSeconds <= 0 {
		transcript.DurationSeconds = words[len(words)-1].End
	}
	if meta := buildMeta(result); meta != "" {
		transcript.MetaJSON = meta
	}

	if err := s.repo.InsertTranscript(ctx, transcript); err != nil {
		return nil, fmt.Errorf("transcribe: persist transcript: %w", err)
	}
	s.logger.Info("transcript stored",
		logging.String(logging.FieldTranscriptID, transcript.ID),
		logging.String(logging.FieldDeliverableID, transcript.DeliverableID),
		logging.Int("words", len(transcript.Words)),
		logging.Float64("duration_seconds", transcript.DurationSeconds),
	)
	return transcript, nil
}

// Get returns a transcript by id, or a not-found error.
func (s *Service) Get(ctx context.Context, id string) (*store.Transcript, error) {
	transcript, err := s.repo.GetTranscript(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	if transcript == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "get", fmt.Sprintf("transcript %s", id), nil)
	}
	return transcript, nil
}

// ByDeliverable lists all transcripts recorded for a deliverable.
func (s *Service) ByDeliverable(ctx context.Context, deliverableID string) ([]*store.Transcript, error) {
	transcripts, err := s.repo.TranscriptsByDeliverable(ctx, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	return transcripts, nil
}

// Health reports whether the transcription collaborator is reachable.
func (s *Service) Health(ctx context.Context) error {
	return s.transcriber.Health(ctx)
}

// normalizeWords drops empty entries, clamps negative times, and restores a
// stable time ordering. Providers occasionally emit out-of-order diarization
// fragments; storage requires monotonic starts.
func normalizeWords(raw []speech.Word) []store.Word {
	words := make([]store.Word, 0, len(raw))
	for _, w := range raw {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		start, end := w.Start, w.End
		if start < 0 {
			start = 0
		}
		if end < start {
			end = start
		}
		words = append(words, store.Word{Text: text, Start: start, End: end, Speaker: w.Speaker})
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Start < words[j].Start
	})
	return words
}

func buildMeta(result *speech.Result) string {
	meta := map[string]any{}
	if result.Language != "" {
		meta["language"] = result.Language
	}
	if len(meta) == 0 {
		return ""
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(encoded)
}
