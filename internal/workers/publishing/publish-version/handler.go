package publishversion

import (
	"context"
	"fmt"
	"io"

	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "publish-version"

type Publisher interface {
	Publish(ctx context.Context, appID string, obj luis.ApplicationPublishObject) (*luis.ProductionOrStagingEndpointInfo, error)
}

// Notifier is told about a successful publish. Its failure is logged, not returned.
type Notifier interface {
	NotifyPublished(ctx context.Context, app luis.ApplicationInfo, info *luis.ProductionOrStagingEndpointInfo) error
}

type Handler struct {
	config   *Config
	client   Publisher
	notifier Notifier
	logger   logger.Logger
	out      io.Writer
}

// NewHandler builds the publish step. notifier may be nil.
func NewHandler(config *Config, client Publisher, notifier Notifier, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config:   config,
		client:   client,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:      out,
	}
}

// Execute publishes the version. It does not check that training finished;
// run wait-for-training first if that matters.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	info, err := h.client.Publish(ctx, input.App.ID, luis.ApplicationPublishObject{
		VersionID: input.App.Version,
		IsStaging: h.config.IsStaging,
	})
	if err != nil {
		return nil, fmt.Errorf("publish version %s: %w", input.App.Version, err)
	}

	fmt.Fprintf(h.out, "Endpoint URL: %s\n", info.EndpointURL)
	h.logger.Info("version published", map[string]interface{}{
		"appId":       input.App.ID,
		"version":     input.App.Version,
		"isStaging":   info.IsStaging,
		"endpointUrl": info.EndpointURL,
	})

	if h.notifier != nil {
		if err := h.notifier.NotifyPublished(ctx, input.App, info); err != nil {
			h.logger.Warn("publish notification failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return &Output{
		EndpointURL: info.EndpointURL,
		VersionID:   info.VersionID,
		IsStaging:   info.IsStaging,
		Region:      info.Region,
		PublishedAt: info.PublishedDateTime,
	}, nil
}
