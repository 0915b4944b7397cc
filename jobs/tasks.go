package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeHistoryPrune is the task type for trimming old action history.
	TaskTypeHistoryPrune = "history:prune"
	// TaskTypeEvaluationRecalc is the task type for recomputing an
	// employee's evaluation summary.
	TaskTypeEvaluationRecalc = "evaluation:recalc"
)

// HistoryPrunePayload configures one history pruning run.
type HistoryPrunePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewHistoryPruneTask constructs an Asynq task.
func NewHistoryPruneTask(payload HistoryPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeHistoryPrune, data), nil
}

// EvaluationRecalcPayload identifies the user and period to recompute.
type EvaluationRecalcPayload struct {
	UserID string `json:"user_id"`
	Period string `json:"period"`
}

// NewEvaluationRecalcTask constructs an Asynq task.
func NewEvaluationRecalcTask(payload EvaluationRecalcPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeEvaluationRecalc, data), nil
}

// HistoryPruner deletes history entries past the retention window.
type HistoryPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// NewHistoryPruneHandler adapts a pruner into an Asynq handler.
func NewHistoryPruneHandler(pruner HistoryPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload HistoryPrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Retention <= 0 {
			payload.Retention = 90 * 24 * time.Hour
		}
		removed, err := pruner.Prune(ctx, payload.Retention)
		if err != nil {
			logger.Error("history prune", slog.Any("error", err))
			return err
		}
		logger.Info("history pruned", slog.Int64("removed", removed), slog.Duration("retention", payload.Retention))
		return nil
	}
}

// EvaluationRecalculator recomputes one user's weighted evaluation summary.
type EvaluationRecalculator interface {
	Recalc(ctx context.Context, userID, period string) (float64, error)
}

// NewEvaluationRecalcHandler adapts a recalculator into an Asynq handler.
func NewEvaluationRecalcHandler(recalc EvaluationRecalculator, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload EvaluationRecalcPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.UserID == "" || payload.Period == "" {
			return asynq.SkipRetry
		}
		overall, err := recalc.Recalc(ctx, payload.UserID, payload.Period)
		if err != nil {
			logger.Error("evaluation recalc",
				slog.String("user_id", payload.UserID),
				slog.String("period", payload.Period),
				slog.Any("error", err))
			return err
		}
		logger.Info("evaluation recalculated",
			slog.String("user_id", payload.UserID),
			slog.String("period", payload.Period),
			slog.Float64("overall", overall))
		return nil
	}
}
