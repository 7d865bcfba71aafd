package waitfortraining

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "wait-for-training"

type StatusGetter interface {
	GetTrainingStatus(ctx context.Context, appID, version string) ([]luis.ModelTrainingInfo, error)
}

type Handler struct {
	config *Config
	client StatusGetter
	logger logger.Logger
	out    io.Writer
}

func NewHandler(config *Config, client StatusGetter, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:    out,
	}
}

// Execute polls training status until every model is terminal or MaxWait elapses.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, h.config.MaxWait)
	defer cancel()

	ticker := time.NewTicker(h.config.PollInterval)
	defer ticker.Stop()

	polls := 0
	for {
		polls++
		models, err := h.client.GetTrainingStatus(waitCtx, input.App.ID, input.App.Version)
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return nil, apperrors.NewTrainingTimeoutError(time.Since(start), err)
			}
			return nil, fmt.Errorf("get training status: %w", err)
		}

		done, pending := terminal(models)
		if done {
			return h.finish(input, models, polls)
		}
		h.logger.Debug("training in progress", map[string]interface{}{
			"poll":    polls,
			"pending": pending,
			"models":  len(models),
		})

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, apperrors.NewTrainingTimeoutError(time.Since(start), waitCtx.Err())
			}
			return nil, ctx.Err()
		}
	}
}

func (h *Handler) finish(input *Input, models []luis.ModelTrainingInfo, polls int) (*Output, error) {
	var reasons []string
	for _, m := range models {
		if m.Details.Status == luis.StatusFail {
			reasons = append(reasons, fmt.Sprintf("%s: %s", m.ModelID, m.Details.FailureReason))
		}
	}
	if len(reasons) > 0 {
		return nil, apperrors.NewTrainingFailedError(reasons)
	}

	fmt.Fprintf(h.out, "Training status: %s\n", models[0].Details.Status)
	h.logger.Info("training finished", map[string]interface{}{
		"appId":   input.App.ID,
		"version": input.App.Version,
		"polls":   polls,
	})

	return &Output{Models: models, Polls: polls, Publishable: luis.IsPublishable(models)}, nil
}

// terminal reports whether every model has stopped training, and how many have not.
func terminal(models []luis.ModelTrainingInfo) (bool, int) {
	pending := 0
	for _, m := range models {
		if !luis.IsTerminal(m.Details.Status) {
			pending++
		}
	}
	return len(models) > 0 && pending == 0, pending
}
