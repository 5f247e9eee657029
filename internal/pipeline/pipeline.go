// internal/pipeline/pipeline.go
//
// The submission pipeline runs persist, document and notify in order.
// Persistence is the commit point: if it fails nothing downstream runs
// and the submission as a whole fails. Document and notify failures
// degrade the outcome but never lose the saved record.
package pipeline

import (
	"context"
	"os"
	"time"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/common/metrics"
	"yesloans-backend/internal/common/observability"
	"yesloans-backend/internal/models"
	"yesloans-backend/internal/wizard"
)

// ApplicationStore is the persistence surface the pipeline needs.
type ApplicationStore interface {
	Insert(ctx context.Context, rec *models.ApplicationRecord) error
	Update(ctx context.Context, rec *models.ApplicationRecord) error
}

// Renderer produces the receipt artifact for a saved record.
type Renderer interface {
	Render(ctx context.Context, rec *models.ApplicationRecord) (string, error)
}

// Mailer delivers the receipt to the applicant.
type Mailer interface {
	SendApplicationReceipt(ctx context.Context, to, fullName, attachmentPath string) error
}

// Outcome classifies a finished pipeline run.
type Outcome string

const (
	// OutcomeSaved means every stage succeeded.
	OutcomeSaved Outcome = "saved"
	// OutcomeDegraded means the record was persisted but the receipt
	// document or email did not go out.
	OutcomeDegraded Outcome = "degraded"
)

// Result reports what the pipeline accomplished for a submission.
type Result struct {
	ApplicationID string
	Outcome       Outcome
	// FailedStage names the stage behind a degraded outcome: "document"
	// or "notification". Empty when Outcome is OutcomeSaved.
	FailedStage string
}

type Pipeline struct {
	store      ApplicationStore
	renderer   Renderer
	mailer     Mailer
	obs        *observability.Observability
	logger     logger.Logger
	sendTimeout time.Duration
}

func New(store ApplicationStore, renderer Renderer, mailer Mailer, cfg config.NotificationConfig, obs *observability.Observability, log logger.Logger) *Pipeline {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pipeline{
		store:      store,
		renderer:   renderer,
		mailer:     mailer,
		obs:        obs,
		logger:     log,
		sendTimeout: timeout,
	}
}

// Submit runs the pipeline for a completed wizard state. The state must be
// at the final step; the handler enforces step gating before calling here.
func (p *Pipeline) Submit(ctx context.Context, state wizard.State) (*Result, error) {
	start := time.Now()

	mode := "create"
	if state.Mode.IsEdit {
		mode = "edit"
	}

	rec, err := wizard.ToRecord(state.Fields)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(mode, "rejected").Inc()
		return nil, err
	}

	if state.Mode.IsEdit {
		rec.ID = state.Mode.TargetID
		err = p.store.Update(ctx, rec)
	} else {
		err = p.store.Insert(ctx, rec)
	}
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(mode, "failed").Inc()
		metrics.PipelineStageFailures.WithLabelValues("persist").Inc()
		p.recordRun(ctx, start, "failed")
		return nil, err
	}

	result := &Result{ApplicationID: rec.ID, Outcome: OutcomeSaved}

	artifactPath, err := p.renderer.Render(ctx, rec)
	if err != nil {
		p.logger.Error("receipt render failed, submission degraded", map[string]interface{}{
			"applicationId": rec.ID,
			"error":         err.Error(),
		})
		metrics.PipelineStageFailures.WithLabelValues("document").Inc()
		result.Outcome = OutcomeDegraded
		result.FailedStage = "document"
		p.finish(ctx, start, mode, result)
		return result, nil
	}
	defer p.removeArtifact(artifactPath, rec.ID)

	notifyCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	if err := p.mailer.SendApplicationReceipt(notifyCtx, rec.Email, rec.FullName, artifactPath); err != nil {
		p.logger.Error("confirmation email failed, submission degraded", map[string]interface{}{
			"applicationId": rec.ID,
			"email":         rec.Email,
			"error":         err.Error(),
		})
		metrics.PipelineStageFailures.WithLabelValues("notification").Inc()
		result.Outcome = OutcomeDegraded
		result.FailedStage = "notification"
	}

	p.finish(ctx, start, mode, result)
	return result, nil
}

func (p *Pipeline) finish(ctx context.Context, start time.Time, mode string, result *Result) {
	metrics.SubmissionsTotal.WithLabelValues(mode, string(result.Outcome)).Inc()
	p.recordRun(ctx, start, string(result.Outcome))

	p.logger.Info("submission pipeline finished", map[string]interface{}{
		"applicationId": result.ApplicationID,
		"mode":          mode,
		"outcome":       string(result.Outcome),
		"durationMs":    time.Since(start).Milliseconds(),
	})
}

func (p *Pipeline) recordRun(ctx context.Context, start time.Time, outcome string) {
	elapsed := time.Since(start)
	metrics.SubmissionDuration.Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordSubmissionProcessed(ctx, outcome)
		p.obs.RecordSubmissionDuration(ctx, elapsed, outcome)
	}
}

func (p *Pipeline) removeArtifact(path, appID string) {
	if err := os.Remove(path); err != nil {
		p.logger.Warn("failed to remove receipt artifact", map[string]interface{}{
			"applicationId": appID,
			"path":          path,
			"error":         err.Error(),
		})
	}
}

// IsPersistenceFailure reports whether a Submit error means the record was
// never written, as opposed to an upstream validation problem.
func IsPersistenceFailure(err error) bool {
	return commonerrors.CodeOf(err) == commonerrors.ErrCodeDatabaseInsertFailed
}
