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

const recipeColumns = "id, deliverable_id, transcript_id, instructions, version, operations_json, compiler_revision, created_at"

// versionInsertAttempts bounds the retry loop for concurrent compiles racing
// on the same deliverable's version chain.
const versionInsertAttempts = 10

// InsertRecipe persists a new recipe, assigning the next version in the
// deliverable's chain atomically. The version is computed inside the INSERT
// and guarded by the UNIQUE(deliverable_id, version) constraint; a conflict
// from a concurrent compile is retried with a freshly computed version, so
// sequential and concurrent compiles both produce gapless chains.
func (s *Store) InsertRecipe(ctx context.Context, r *Recipe) error {
	if r == nil {
		return errors.New("recipe is nil")
	}
	if r.Instructions == "" {
		return errors.New("recipe instructions required")
	}

	opsJSON, err := json.Marshal(r.Operations)
	if err != nil {
		return fmt.Errorf("marshal operations: %w", err)
	}
	if r.Operations == nil {
		opsJSON = []byte("[]")
	}

	ctx = ensureContext(ctx)
	var lastErr error
	for attempt := 0; attempt < versionInsertAttempts; attempt++ {
		r.ID = uuid.NewString()
		r.CreatedAt = time.Now().UTC()

		_, lastErr = s.execWithRetry(
			ctx,
			`INSERT INTO edit_recipes (
                id, deliverable_id, transcript_id, instructions, version,
                operations_json, compiler_revision, created_at
            ) VALUES (?, ?, ?, ?,
                (SELECT COALESCE(MAX(version), 0) + 1 FROM edit_recipes WHERE deliverable_id = ?),
                ?, ?, ?)`,
			r.ID,
			r.DeliverableID,
			nullableString(r.TranscriptID),
			r.Instructions,
			r.DeliverableID,
			string(opsJSON),
			r.CompilerRevision,
			r.CreatedAt.Format(time.RFC3339Nano),
		)
		if lastErr == nil {
			row := s.db.QueryRowContext(ctx, `SELECT version FROM edit_recipes WHERE id = ?`, r.ID)
			if err := row.Scan(&r.Version); err != nil {
				return fmt.Errorf("read assigned version: %w", err)
			}
			return nil
		}
		if !isUniqueViolation(lastErr) {
			break
		}
	}
	return fmt.Errorf("insert recipe: %w", lastErr)
}

// GetRecipe fetches a recipe by identifier. Returns nil when absent.
func (s *Store) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recipeColumns+` FROM edit_recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

// RecipesByDeliverable returns the deliverable's full version chain, oldest
// version first.
func (s *Store) RecipesByDeliverable(ctx context.Context, deliverableID string) ([]*Recipe, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+recipeColumns+` FROM edit_recipes WHERE deliverable_id = ? ORDER BY version`, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// LatestRecipe returns the highest-version recipe for a deliverable, or nil
// when the chain is empty.
func (s *Store) LatestRecipe(ctx context.Context, deliverableID string) (*Recipe, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recipeColumns+` FROM edit_recipes WHERE deliverable_id = ? ORDER BY version DESC LIMIT 1`, deliverableID)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest recipe: %w", err)
	}
	return r, nil
}

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*Recipe, error) {
	var (
		id            string
		deliverableID string
		transcriptID  sql.NullString
		instructions  string
		version       int64
		opsJSON       string
		revision      string
		createdRaw    string
	)
	if err := scanner.Scan(&id, &deliverableID, &transcriptID, &instructions, &version, &opsJSON, &revision, &createdRaw); err != nil {
		return nil, err
	}

	r := &Recipe{
		ID:               id,
		DeliverableID:    deliverableID,
		TranscriptID:     transcriptID.String,
		Instructions:     instructions,
		Version:          version,
		CompilerRevision: revision,
	}
	if err := json.Unmarshal([]byte(opsJSON), &r.Operations); err != nil {
		return nil, fmt.Errorf("parse operations json: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		r.CreatedAt = created
	}
	return r, nil
}
