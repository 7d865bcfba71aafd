package checktrainstatus

import (
	"context"
	"fmt"
	"io"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "check-train-status"

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

// Execute queries training status once and prints the first model's status.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	models, err := h.client.GetTrainingStatus(ctx, input.App.ID, input.App.Version)
	if err != nil {
		return nil, fmt.Errorf("get training status: %w", err)
	}
	if len(models) == 0 {
		return nil, apperrors.NewStatusEmptyError(input.App.ID, input.App.Version)
	}

	status := models[0].Details.Status
	fmt.Fprintln(h.out, status)
	h.logger.Info("training status checked", map[string]interface{}{
		"appId":       input.App.ID,
		"version":     input.App.Version,
		"status":      status,
		"models":      len(models),
		"publishable": luis.IsPublishable(models),
	})

	return &Output{Status: status, Models: models}, nil
}
