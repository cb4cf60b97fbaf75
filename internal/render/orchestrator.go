// Package render drives asynchronous render jobs on the external farm and
// tracks their lifecycle in the store. Submission is fail-fast: a render row
// exists only once the farm has accepted the job.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/services/renderfarm"
	"recut/internal/store"
	"recut/internal/timeline"
)

const component = "render"

// Farm is the external render collaborator.
type Farm interface {
	Submit(ctx context.Context, req renderfarm.SubmitRequest) (string, error)
	Poll(ctx context.Context, jobID string) (*renderfarm.JobStatus, error)
	Health(ctx context.Context) error
}

// HealthChecker reports collaborator reachability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Executor resolves a recipe into an executable timeline.
type Executor interface {
	Execute(ctx context.Context, recipeID, transcriptID string) (*timeline.Timeline, error)
}

// Repository is the persistence surface the orchestrator needs.
type Repository interface {
	InsertRender(ctx context.Context, r *store.Render) error
	GetRender(ctx context.Context, id string) (*store.Render, error)
	RendersByDeliverable(ctx context.Context, deliverableID string) ([]*store.Render, error)
	TransitionRender(ctx context.Context, id string, from, to store.RenderStatus, update store.RenderUpdate) (bool, error)
	RenderHealth(ctx context.Context) (store.HealthSummary, error)
}

// Orchestrator submits renders and reconciles their status with the farm.
type Orchestrator struct {
	repo     Repository
	farm     Farm
	executor Executor
	editor   HealthChecker
	logger   *slog.Logger
}

// NewOrchestrator constructs an orchestrator. The editor health checker is
// optional; without one the health report marks the editor unhealthy.
func NewOrchestrator(repo Repository, farm Farm, executor Executor, editor HealthChecker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		farm:     farm,
		executor: executor,
		editor:   editor,
		logger:   logging.WithComponent(logger, component),
	}
}

// TimelineRequest submits an executed timeline for rendering.
type TimelineRequest struct {
	Timeline      *timeline.Timeline
	Kind          store.RenderKind
	DeliverableID string
	RecipeID      string
}

// RenderTimeline submits the timeline to the farm and records the accepted
// job. A rejected submission leaves no render row behind.
func (o *Orchestrator) RenderTimeline(ctx context.Context, req TimelineRequest) (*store.Render, error) {
	if req.Timeline == nil || len(req.Timeline.Segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, component, "render", "timeline with segments is required", nil)
	}
	if req.Kind == "" {
		req.Kind = store.RenderPreview
	}

	payload, err := json.Marshal(req.Timeline)
	if err != nil {
		return nil, fmt.Errorf("render: encode timeline: %w", err)
	}
	return o.submit(ctx, renderfarm.SubmitRequest{
		Timeline: payload,
		Kind:     string(req.Kind),
		SourceID: req.Timeline.TranscriptID,
	}, req.DeliverableID, req.RecipeID, req.Kind)
}

// ScriptRequest submits a provider-native edit script for rendering.
type ScriptRequest struct {
	Script        string
	Kind          store.RenderKind
	DeliverableID string
	RecipeID      string
}

// RenderScript submits a provider edit script instead of an executed
// timeline, used for final renders prepared outside the executor.
func (o *Orchestrator) RenderScript(ctx context.Context, req ScriptRequest) (*store.Render, error) {
	if strings.TrimSpace(req.Script) == "" {
		return nil, services.Wrap(services.ErrValidation, component, "render", "script is required", nil)
	}
	if req.Kind == "" {
		req.Kind = store.RenderFinal
	}
	return o.submit(ctx, renderfarm.SubmitRequest{
		Script: req.Script,
		Kind:   string(req.Kind),
	}, req.DeliverableID, req.RecipeID, req.Kind)
}

// ExecuteAndRender executes the recipe against the transcript and submits
// the resulting timeline. The task owns the render row.
func (o *Orchestrator) ExecuteAndRender(ctx context.Context, recipeID, transcriptID, taskID string, kind store.RenderKind) (*store.Render, error) {
	tl, err := o.executor.Execute(ctx, recipeID, transcriptID)
	if err != nil {
		return nil, err
	}
	return o.RenderTimeline(ctx, TimelineRequest{
		Timeline:      tl,
		Kind:          kind,
		DeliverableID: taskID,
		RecipeID:      recipeID,
	})
}

func (o *Orchestrator) submit(ctx context.Context, req renderfarm.SubmitRequest, deliverableID, recipeID string, kind store.RenderKind) (*store.Render, error) {
	jobID, err := o.farm.Submit(ctx, req)
	if err != nil {
		return nil, services.Wrap(services.ErrRenderSubmission, component, "submit", "render farm rejected the job", err)
	}

	render := &store.Render{
		DeliverableID: deliverableID,
		RecipeID:      recipeID,
		Kind:          kind,
		ProviderJobID: jobID,
	}
	if err := o.repo.InsertRender(ctx, render); err != nil {
		return nil, fmt.Errorf("render: persist job: %w", err)
	}
	o.logger.Info("render submitted",
		logging.String(logging.FieldRenderID, render.ID),
		logging.String(logging.FieldDeliverableID, deliverableID),
		logging.String("provider_job_id", jobID),
		logging.String("kind", string(kind)),
	)
	return render, nil
}

// Status returns the current state of a render. Terminal renders are served
// straight from the store; in-flight renders are reconciled against the farm
// first. Transitions use compare-and-set so a stale poll can never move a
// render backwards.
func (o *Orchestrator) Status(ctx context.Context, renderID string) (*store.Render, error) {
	render, err := o.repo.GetRender(ctx, renderID)
	if err != nil {
		return nil, fmt.Errorf("render status: %w", err)
	}
	if render == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "status", fmt.Sprintf("render %s", renderID), nil)
	}
	if render.Status.Terminal() {
		return render, nil
	}

	job, err := o.farm.Poll(ctx, render.ProviderJobID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, component, "status", "render farm poll timed out", err)
		}
		return nil, services.Wrap(services.ErrTransient, component, "status", "render farm poll failed", err)
	}

	target, update := translateJob(job)
	if target == "" || target == render.Status {
		return render, nil
	}

	moved, err := o.repo.TransitionRender(ctx, render.ID, render.Status, target, update)
	if err != nil && !errors.Is(err, store.ErrIllegalTransition) {
		return nil, fmt.Errorf("render status: record transition: %w", err)
	}
	if moved {
		o.logger.Info("render transitioned",
			logging.String(logging.FieldRenderID, render.ID),
			logging.String("from", string(render.Status)),
			logging.String("to", string(target)),
		)
	}

	// Re-read so concurrent pollers all observe the winning row.
	current, err := o.repo.GetRender(ctx, render.ID)
	if err != nil {
		return nil, fmt.Errorf("render status: reload: %w", err)
	}
	if current == nil {
		return render, nil
	}
	return current, nil
}

// ByDeliverable lists render attempts for a deliverable.
func (o *Orchestrator) ByDeliverable(ctx context.Context, deliverableID string) ([]*store.Render, error) {
	renders, err := o.repo.RendersByDeliverable(ctx, deliverableID)
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	return renders, nil
}

// HealthReport summarizes collaborator reachability and render counts.
type HealthReport struct {
	EditorHealthy    bool
	GeneratorHealthy bool
	Renders          store.HealthSummary
}

// Health never returns an error; unreachable collaborators show up as
// unhealthy flags so the endpoint itself stays available.
func (o *Orchestrator) Health(ctx context.Context) HealthReport {
	report := HealthReport{}
	if o.editor != nil {
		report.EditorHealthy = o.editor.Health(ctx) == nil
	}
	if o.farm != nil {
		report.GeneratorHealthy = o.farm.Health(ctx) == nil
	}
	if summary, err := o.repo.RenderHealth(ctx); err == nil {
		report.Renders = summary
	} else {
		o.logger.Warn("render health query failed", logging.Error(err))
	}
	return report
}

func translateJob(job *renderfarm.JobStatus) (store.RenderStatus, store.RenderUpdate) {
	update := store.RenderUpdate{}
	switch job.State {
	case renderfarm.JobRunning:
		return store.RenderRendering, update
	case renderfarm.JobCompleted:
		update.AssetID = job.AssetRef
		if metrics, err := json.Marshal(job.Metrics); err == nil && string(metrics) != "{}" {
			update.MetricsJSON = string(metrics)
		}
		return store.RenderCompleted, update
	case renderfarm.JobFailed:
		update.ErrorMessage = job.Error
		if update.ErrorMessage == "" {
			update.ErrorMessage = "render failed without detail"
		}
		return store.RenderFailed, update
	default:
		return "", update
	}
}
