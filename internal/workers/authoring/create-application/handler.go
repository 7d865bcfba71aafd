package createapplication

import (
	"context"
	"fmt"
	"io"

	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
)

const TaskType = "create-application"

// AppCreator is the part of the authoring client this step needs.
type AppCreator interface {
	AddApp(ctx context.Context, app luis.ApplicationCreateObject) (string, error)
}

type Handler struct {
	config *Config
	client AppCreator
	logger logger.Logger
	out    io.Writer
}

func NewHandler(config *Config, client AppCreator, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:    out,
	}
}

// Execute creates exactly one application. Re-running creates a duplicate.
func (h *Handler) Execute(ctx context.Context) (*Output, error) {
	app := luis.ApplicationCreateObject{
		Name:             h.config.Name,
		Description:      h.config.Description,
		Culture:          h.config.Culture,
		InitialVersionID: h.config.Version,
	}

	id, err := h.client.AddApp(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("create application %q: %w", app.Name, err)
	}

	fmt.Fprintf(h.out, "Created New LUIS Application %s \n with ID %s\n", app.Name, id)
	h.logger.Info("application created", map[string]interface{}{
		"appId":   id,
		"name":    app.Name,
		"version": h.config.Version,
		"culture": app.Culture,
	})

	return &Output{
		App:  luis.ApplicationInfo{ID: id, Version: h.config.Version},
		Name: app.Name,
	}, nil
}
