package trainversion

import (
	"context"
	"fmt"
	"io"

	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "train-version"

type Trainer interface {
	TrainVersion(ctx context.Context, appID, version string) (*luis.EnqueueTrainingResponse, error)
}

type Handler struct {
	config *Config
	client Trainer
	logger logger.Logger
	out    io.Writer
}

func NewHandler(config *Config, client Trainer, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:    out,
	}
}

// Execute queues training and returns immediately; the status it reports is
// usually Queued or InProgress.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.client.TrainVersion(ctx, input.App.ID, input.App.Version)
	if err != nil {
		return nil, fmt.Errorf("train version %s: %w", input.App.Version, err)
	}

	fmt.Fprintf(h.out, "Training status: %s\n", resp.Status)
	h.logger.Info("training requested", map[string]interface{}{
		"appId":    input.App.ID,
		"version":  input.App.Version,
		"status":   resp.Status,
		"statusId": resp.StatusID,
	})

	return &Output{StatusID: resp.StatusID, Status: resp.Status}, nil
}
