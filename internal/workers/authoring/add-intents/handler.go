package addintents

import (
	"context"
	"fmt"
	"io"

	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "add-intents"

type IntentCreator interface {
	AddIntent(ctx context.Context, appID, version string, intent luis.ModelCreateObject) (string, error)
}

type Handler struct {
	config *Config
	client IntentCreator
	logger logger.Logger
	out    io.Writer
}

func NewHandler(config *Config, client IntentCreator, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:    out,
	}
}

// Execute creates the configured intents in order. The first failure stops
// the remaining creations; intents already created stay on the service.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{Created: make([]CreatedIntent, 0, len(h.config.Intents))}

	for _, name := range h.config.Intents {
		id, err := h.client.AddIntent(ctx, input.App.ID, input.App.Version, luis.ModelCreateObject{Name: name})
		if err != nil {
			h.logger.Error("intent creation failed", map[string]interface{}{
				"intent":  name,
				"created": len(output.Created),
				"error":   err.Error(),
			})
			return nil, fmt.Errorf("create intent %q (%d of %d created): %w", name, len(output.Created), len(h.config.Intents), err)
		}

		fmt.Fprintf(h.out, "Created intent %s\n", name)
		output.Created = append(output.Created, CreatedIntent{Name: name, ID: id})
	}

	h.logger.Info("intents created", map[string]interface{}{
		"appId": input.App.ID,
		"count": len(output.Created),
	})

	return output, nil
}
