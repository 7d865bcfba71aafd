package addutterances

import (
	"context"
	"fmt"
	"io"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
	"luis-provisioner/internal/common/metrics"
	"luis-provisioner/internal/labeling"
)

const TaskType = "add-utterances"

type ExampleSubmitter interface {
	BatchExamples(ctx context.Context, appID, version string, examples []luis.ExampleLabelObject) ([]luis.BatchLabelExample, error)
}

type Handler struct {
	config *Config
	client ExampleSubmitter
	logger logger.Logger
	out    io.Writer
}

func NewHandler(config *Config, client ExampleSubmitter, log logger.Logger, out io.Writer) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		out:    out,
	}
}

// Execute labels every utterance and submits them as one batch. Per-item
// failures are reported in the output and do not fail the step.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	examples, err := h.buildExamples()
	if err != nil {
		return nil, err
	}

	results, err := h.client.BatchExamples(ctx, input.App.ID, input.App.Version, examples)
	if err != nil {
		return nil, fmt.Errorf("submit %d examples: %w", len(examples), err)
	}
	if len(results) != len(examples) {
		return nil, apperrors.NewBatchOutcomeMismatchError(len(examples), len(results))
	}

	output := &Output{Outcomes: make([]Outcome, 0, len(results))}
	for i, r := range results {
		outcome := Outcome{
			Text:      examples[i].Text,
			ExampleID: r.Value.ExampleID,
			Succeeded: !r.HasError,
		}
		result := "succeeded"
		if r.HasError {
			result = "failed"
			output.Failed++
			if r.Error != nil {
				outcome.Error = r.Error.Message
			}
		} else {
			output.Succeeded++
		}
		metrics.ExamplesSubmitted.WithLabelValues(result).Inc()

		fmt.Fprintf(h.out, "%d %s\n", outcome.ExampleID, result)
		output.Outcomes = append(output.Outcomes, outcome)
	}

	fields := map[string]interface{}{
		"appId":     input.App.ID,
		"submitted": len(examples),
		"succeeded": output.Succeeded,
		"failed":    output.Failed,
	}
	if output.Failed > 0 {
		h.logger.Warn("batch completed with failed examples", fields)
	} else {
		h.logger.Info("batch completed", fields)
	}

	return output, nil
}

func (h *Handler) buildExamples() ([]luis.ExampleLabelObject, error) {
	examples := make([]luis.ExampleLabelObject, 0, len(h.config.Utterances))
	for i, u := range h.config.Utterances {
		ex, unresolved, err := labeling.BuildExample(u, h.config.Mode)
		if err != nil {
			return nil, fmt.Errorf("label utterance %d: %w", i, err)
		}
		if len(unresolved) > 0 {
			h.logger.Warn("label value not found, submitting unresolved span", map[string]interface{}{
				"text":     u.Text,
				"entities": unresolved,
			})
		}
		examples = append(examples, ex)
	}
	return examples, nil
}
