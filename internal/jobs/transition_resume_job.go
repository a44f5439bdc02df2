package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// TransitionResumeJob re-drives stage transitions that were interrupted
// between the IN_PROGRESS write and the DONE write. Runs every 30 seconds;
// only records older than the stall timeout are picked up, so transitions
// still in flight are left alone.
type TransitionResumeJob struct {
	handler      commands.TransitionStageCommandHandler
	stepLedger   ports.StepLedger
	stallTimeout time.Duration
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewTransitionResumeJob creates the resume job. stallTimeout is how old an
// IN_PROGRESS record must be before it counts as stalled.
func NewTransitionResumeJob(
	handler commands.TransitionStageCommandHandler,
	stepLedger ports.StepLedger,
	stallTimeout time.Duration,
	logger *slog.Logger,
) *TransitionResumeJob {
	return &TransitionResumeJob{
		handler:      handler,
		stepLedger:   stepLedger,
		stallTimeout: stallTimeout,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "transition_resume_job"),
	}
}

// Start begins the resume job on a 30 second schedule.
func (j *TransitionResumeJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.runOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Transition resume job started", "stallTimeout", j.stallTimeout.String())
	return nil
}

// Stop stops the resume job.
func (j *TransitionResumeJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Transition resume job stopped")
}

func (j *TransitionResumeJob) runOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.stallTimeout)

	stalled, err := j.stepLedger.FindStalledInProgress(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stalled transition scan failed", "error", err)
		return
	}

	for _, record := range stalled {
		cmd, cmdErr := commands.NewTransitionStageCommand(record.OrderID(), record.Stage())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stalled record is not resumable",
				"orderId", record.OrderID().String(), "stage", record.Stage().String(), "error", cmdErr)
			continue
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		switch {
		case handleErr == nil:
			j.logger.InfoContext(ctx, "Resumed stalled transition",
				"orderId", result.OrderID.String(), "stage", result.Stage.String(),
				"alreadyCompleted", result.AlreadyCompleted)
		case errors.Is(handleErr, errs.ErrStageOutOfOrder):
			// Another worker finished this stage and moved on. Nothing to do.
		default:
			j.logger.ErrorContext(ctx, "Stalled transition resume failed",
				"orderId", record.OrderID().String(), "stage", record.Stage().String(), "error", handleErr)
		}
	}
}
