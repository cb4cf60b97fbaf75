package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const transcriptColumns = "id, deliverable_id, asset_url, words_json, full_text, duration_seconds, meta_json, created_at"

// InsertTranscript persists a new transcript and assigns its identifier.
// Transcripts are immutable; there is no corresponding update.
func (s *Store) InsertTranscript(ctx context.Context, t *Transcript) error {
	if t == nil {
		return errors.New("transcript is nil")
	}
	if t.AssetURL == "" {
		return errors.New("transcript asset url required")
	}
	if !WordsMonotonic(t.Words) {
		return errors.New("transcript words must be ordered by start time")
	}

	wordsJSON, err := json.Marshal(t.Words)
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	if t.FullText == "" {
		t.FullText = JoinWords(t.Words)
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO transcripts (
            id, deliverable_id, asset_url, words_json, full_text,
            duration_seconds, meta_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		nullableString(t.DeliverableID),
		t.AssetURL,
		string(wordsJSON),
		t.FullText,
		t.DurationSeconds,
		nullableString(t.MetaJSON),
		t.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// GetTranscript fetches a transcript by identifier. Returns nil when absent.
func (s *Store) GetTranscript(ctx context.Context, id string) (*Transcript, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+transcriptColumns+` FROM transcripts WHERE id = ?`, id)
	t, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	return t, nil
}

// TranscriptsByDeliverable returns transcripts linked to a deliverable,
// oldest first.
func (s *Store) TranscriptsByDeliverable(ctx context.Context, deliverableID string) ([]*Transcript, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+transcriptColumns+` FROM transcripts WHERE deliverable_id = ? ORDER BY created_at`, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []*Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, rows.Err()
}

func scanTranscript(scanner interface{ Scan(dest ...any) error }) (*Transcript, error) {
	var (
		id            string
		deliverableID sql.NullString
		assetURL      string
		wordsJSON     string
		fullText      string
		duration      float64
		metaJSON      sql.NullString
		createdRaw    string
	)
	if err := scanner.Scan(&id, &deliverableID, &assetURL, &wordsJSON, &fullText, &duration, &metaJSON, &createdRaw); err != nil {
		return nil, err
	}

	t := &Transcript{
		ID:              id,
		DeliverableID:   deliverableID.String,
		AssetURL:        assetURL,
		FullText:        fullText,
		DurationSeconds: duration,
		MetaJSON:        metaJSON.String,
	}
	if err := json.Unmarshal([]byte(wordsJSON), &t.Words); err != nil {
		return nil, fmt.Errorf("parse words json: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		t.CreatedAt = created
	}
	return t, nil
}
