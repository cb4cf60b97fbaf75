package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const renderColumns = "id, deliverable_id, recipe_id, kind, status, provider_job_id, asset_id, metrics_json, error_message, created_at, updated_at, completed_at"

// ErrIllegalTransition indicates an attempted render status change the state
// machine forbids.
var ErrIllegalTransition = errors.New("illegal render status transition")

// InsertRender persists a new render row. Rows start queued and are only
// inserted after the external farm has accepted the job; a rejected
// submission never creates a row.
func (s *Store) InsertRender(ctx context.Context, r *Render) error {
	if r == nil {
		return errors.New("render is nil")
	}
	if r.Kind != RenderPreview && r.Kind != RenderFinal {
		return fmt.Errorf("unknown render kind %q", r.Kind)
	}
	if r.ProviderJobID == "" {
		return errors.New("render provider job id required")
	}

	r.ID = uuid.NewString()
	r.Status = RenderQueued
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO renders (
            id, deliverable_id, recipe_id, kind, status, provider_job_id,
            asset_id, metrics_json, error_message, created_at, updated_at, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		nullableString(r.DeliverableID),
		nullableString(r.RecipeID),
		string(r.Kind),
		string(r.Status),
		r.ProviderJobID,
		nullableString(r.AssetID),
		nullableString(r.MetricsJSON),
		nullableString(r.ErrorMessage),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		nil,
	)
	if err != nil {
		return fmt.Errorf("insert render: %w", err)
	}
	return nil
}

// GetRender fetches a render by identifier. Returns nil when absent.
func (s *Store) GetRender(ctx context.Context, id string) (*Render, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+renderColumns+` FROM renders WHERE id = ?`, id)
	r, err := scanRender(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get render: %w", err)
	}
	return r, nil
}

// RendersByDeliverable returns the deliverable's render audit trail, oldest
// attempt first.
func (s *Store) RendersByDeliverable(ctx context.Context, deliverableID string) ([]*Render, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+renderColumns+` FROM renders WHERE deliverable_id = ? ORDER BY created_at`, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	var renders []*Render
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		renders = append(renders, r)
	}
	return renders, rows.Err()
}

// RenderUpdate carries the fields a status transition may set alongside the
// new status.
type RenderUpdate struct {
	AssetID      string
	MetricsJSON  string
	ErrorMessage string
}

// TransitionRender moves a render from one status to another with a guarded
// compare-and-swap: the update applies only when the row is still in the
// expected status, so concurrent pollers reconciling the same render cannot
// regress it or double-apply a terminal transition. Returns false when the
// row was not in the expected status (already moved on).
func (s *Store) TransitionRender(ctx context.Context, id string, from, to RenderStatus, update RenderUpdate) (bool, error) {
	if !CanTransition(from, to) {
		return false, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	now := time.Now().UTC()
	var completedAt any
	if to.Terminal() {
		completedAt = now.Format(time.RFC3339Nano)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE renders
         SET status = ?,
             asset_id = COALESCE(?, asset_id),
             metrics_json = COALESCE(?, metrics_json),
             error_message = COALESCE(?, error_message),
             updated_at = ?,
             completed_at = COALESCE(?, completed_at)
         WHERE id = ? AND status = ?`,
		string(to),
		nullableString(update.AssetID),
		nullableString(update.MetricsJSON),
		nullableString(update.ErrorMessage),
		now.Format(time.RFC3339Nano),
		completedAt,
		id,
		string(from),
	)
	if err != nil {
		return false, fmt.Errorf("transition render: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RenderHealth aggregates render counts per lifecycle state.
func (s *Store) RenderHealth(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, COUNT(1) FROM renders GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("render stats: %w", err)
	}
	defer rows.Close()

	health := HealthSummary{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, err
		}
		health.Total += count
		switch RenderStatus(status) {
		case RenderQueued:
			health.Queued += count
		case RenderRendering:
			health.Rendering += count
		case RenderCompleted:
			health.Completed += count
		case RenderFailed:
			health.Failed += count
		}
	}
	return health, rows.Err()
}

func scanRender(scanner interface{ Scan(dest ...any) error }) (*Render, error) {
	var (
		id            string
		deliverableID sql.NullString
		recipeID      sql.NullString
		kind          string
		status        string
		providerJobID sql.NullString
		assetID       sql.NullString
		metricsJSON   sql.NullString
		errorMessage  sql.NullString
		createdRaw    string
		updatedRaw    string
		completedRaw  sql.NullString
	)
	if err := scanner.Scan(&id, &deliverableID, &recipeID, &kind, &status, &providerJobID, &assetID, &metricsJSON, &errorMessage, &createdRaw, &updatedRaw, &completedRaw); err != nil {
		return nil, err
	}

	r := &Render{
		ID:            id,
		DeliverableID: deliverableID.String,
		RecipeID:      recipeID.String,
		Kind:          RenderKind(kind),
		Status:        RenderStatus(status),
		ProviderJobID: providerJobID.String,
		AssetID:       assetID.String,
		MetricsJSON:   metricsJSON.String,
		ErrorMessage:  errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		r.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		r.UpdatedAt = updated
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			r.CompletedAt = &completed
		}
	}
	return r, nil
}
