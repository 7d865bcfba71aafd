package addentities

import (
	"context"
	"fmt"
	"io"

	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "add-entities"

type EntityCreator interface {
	AddEntity(ctx context.Context, appID, version string, entity luis.ModelCreateObject) (string, error)
}

type Handler struct {
	config *Config
	client EntityCreator
	logger logger.Logger
	out    io.Writer
}

func NewHandler(config *Config, client EntityCreator, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:    out,
	}
}

// Execute creates one machine-learned entity per configured name, in order.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{Created: make([]CreatedEntity, 0, len(h.config.Entities))}

	for _, name := range h.config.Entities {
		id, err := h.client.AddEntity(ctx, input.App.ID, input.App.Version, luis.ModelCreateObject{Name: name})
		if err != nil {
			return nil, fmt.Errorf("create entity %q (%d of %d created): %w", name, len(output.Created), len(h.config.Entities), err)
		}

		fmt.Fprintf(h.out, "Created entity %s\n", name)
		h.logger.Debug("entity created", map[string]interface{}{"entity": name, "entityId": id})
		output.Created = append(output.Created, CreatedEntity{Name: name, ID: id})
	}

	return output, nil
}
