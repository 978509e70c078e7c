package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/shoppinglist/pkg/logger"
)

const (
	// DedupeTaskQueue is served by the process that owns the item store.
	DedupeTaskQueue = "shoppinglist-dedupe"

	dedupeWorkflowID = "shoppinglist-dedupe-cron"
)

// DuplicateRemover deletes items that share a normalized name, keeping the oldest.
type DuplicateRemover interface {
	RemoveDuplicates(ctx context.Context) (int, error)
}

// DedupeActivities exposes the item store to Temporal.
type DedupeActivities struct {
	Remover DuplicateRemover
}

// RemoveDuplicateItems runs one duplicate sweep and returns how many items were removed.
func (a *DedupeActivities) RemoveDuplicateItems(ctx context.Context) (int, error) {
	removed, err := a.Remover.RemoveDuplicates(ctx)
	if err != nil {
		return removed, fmt.Errorf("remove duplicates: %w", err)
	}
	activity.GetLogger(ctx).Info("duplicate sweep finished", "removed", removed)
	return removed, nil
}

// DedupeWorkflow runs the sweep activity with a bounded retry policy. The sweep is
// idempotent so retries after a partial failure are safe.
func DedupeWorkflow(ctx workflow.Context) (int, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	var a *DedupeActivities
	var removed int
	if err := workflow.ExecuteActivity(ctx, a.RemoveDuplicateItems).Get(ctx, &removed); err != nil {
		return 0, err
	}
	return removed, nil
}

// NewDedupeWorker registers the workflow and activities on DedupeTaskQueue.
// The caller starts and stops the returned worker.
func NewDedupeWorker(tc *TemporalClient, remover DuplicateRemover) worker.Worker {
	w := worker.New(tc.Client, DedupeTaskQueue, worker.Options{})
	w.RegisterWorkflow(DedupeWorkflow)
	w.RegisterActivity(&DedupeActivities{Remover: remover})
	return w
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid dedupe schedule %q: %w", schedule, err)
	}
	return nil
}

// StartDedupeSchedule starts the cron workflow unless it is already running.
func StartDedupeSchedule(ctx context.Context, tc *TemporalClient, schedule string, log logger.Logger) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	run, err := tc.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                                       dedupeWorkflowID,
		TaskQueue:                                DedupeTaskQueue,
		CronSchedule:                             schedule,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, DedupeWorkflow)

	var started *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case errors.As(err, &started):
		log.InfoContext(ctx, "dedupe schedule already running", "workflow_id", dedupeWorkflowID)
		return nil
	case err != nil:
		return fmt.Errorf("start dedupe schedule: %w", err)
	}

	log.InfoContext(ctx, "dedupe schedule started",
		"workflow_id", run.GetID(),
		"run_id", run.GetRunID(),
		"schedule", schedule,
	)
	return nil
}
