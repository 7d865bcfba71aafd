package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"luis-provisioner/internal/common/config"
	"luis-provisioner/internal/common/database"
	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
	"luis-provisioner/internal/common/metrics"
	"luis-provisioner/internal/common/observability"
	"luis-provisioner/internal/common/validation"
	addentities "luis-provisioner/internal/workers/authoring/add-entities"
	addintents "luis-provisioner/internal/workers/authoring/add-intents"
	addutterances "luis-provisioner/internal/workers/authoring/add-utterances"
	createapplication "luis-provisioner/internal/workers/authoring/create-application"
	publishversion "luis-provisioner/internal/workers/publishing/publish-version"
	checktrainstatus "luis-provisioner/internal/workers/training/check-train-status"
	trainversion "luis-provisioner/internal/workers/training/train-version"
	waitfortraining "luis-provisioner/internal/workers/training/wait-for-training"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AuthoringAPI is everything the steps need from the authoring service.
type AuthoringAPI interface {
	createapplication.AppCreator
	addintents.IntentCreator
	addentities.EntityCreator
	addutterances.ExampleSubmitter
	trainversion.Trainer
	checktrainstatus.StatusGetter
	publishversion.Publisher
}

type StateStore interface {
	SaveApplication(ctx context.Context, name string, app luis.ApplicationInfo) error
	LoadApplication(ctx context.Context, name string) (luis.ApplicationInfo, error)
}

type StepRecorder interface {
	RecordStep(ctx context.Context, step database.RunStep) error
}

type Runner struct {
	cfg      *config.Config
	client   AuthoringAPI
	logger   logger.Logger
	out      io.Writer
	runID    uuid.UUID
	policy   Policy
	state    StateStore
	ledger   StepRecorder
	notifier publishversion.Notifier
	obs      *observability.Observability
}

type Option func(*Runner)

func WithPolicy(p Policy) Option {
	return func(r *Runner) { r.policy = p }
}

func WithStateStore(s StateStore) Option {
	return func(r *Runner) { r.state = s }
}

func WithLedger(l StepRecorder) Option {
	return func(r *Runner) { r.ledger = l }
}

func WithNotifier(n publishversion.Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

func WithObservability(o *observability.Observability) Option {
	return func(r *Runner) { r.obs = o }
}

func NewRunner(cfg *config.Config, client AuthoringAPI, log logger.Logger, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		client: client,
		out:    out,
		runID:  uuid.New(),
		policy: AbortOnError,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.WithFields(map[string]interface{}{"runId": r.runID.String()})
	return r
}

func (r *Runner) RunID() uuid.UUID {
	return r.runID
}

// Report collects what a run did. App is set once the application exists.
type Report struct {
	RunID   uuid.UUID            `json:"runId"`
	App     luis.ApplicationInfo `json:"app"`
	Results []StepResult         `json:"results"`
}

// Failed returns the results of steps that did not succeed.
func (rep *Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range rep.Results {
		if !res.Succeeded() {
			failed = append(failed, res)
		}
	}
	return failed
}

type step struct {
	name string
	// required steps abort the run whatever the policy says; later steps
	// cannot run without their output.
	required bool
	run      func(ctx context.Context) error
}

// Provision runs the whole sequence: create the application, define its
// intents and entities, submit the labeled utterances, train, check the
// training status, optionally wait for training, and publish.
func (r *Runner) Provision(ctx context.Context) (*Report, error) {
	if err := validation.ValidateManifest(r.cfg); err != nil {
		return nil, err
	}

	rep := &Report{RunID: r.runID}
	createApp := createapplication.NewHandler(createapplication.LoadConfig(r.cfg), r.client, r.logger, r.out)

	steps := []step{
		{name: createapplication.TaskType, required: true, run: func(ctx context.Context) error {
			out, err := createApp.Execute(ctx)
			if err != nil {
				return err
			}
			rep.App = out.App
			r.saveState(ctx, out.App)
			return nil
		}},
	}
	steps = append(steps, r.appSteps(rep, r.provisionTasks()...)...)

	return rep, r.run(ctx, rep, steps)
}

// CheckStatus runs the single status query for an existing application.
func (r *Runner) CheckStatus(ctx context.Context, app luis.ApplicationInfo) (*Report, error) {
	return r.runFor(ctx, app, checktrainstatus.TaskType)
}

// WaitForTraining polls an existing application until training settles.
func (r *Runner) WaitForTraining(ctx context.Context, app luis.ApplicationInfo) (*Report, error) {
	return r.runFor(ctx, app, waitfortraining.TaskType)
}

// Publish publishes an existing application version.
func (r *Runner) Publish(ctx context.Context, app luis.ApplicationInfo) (*Report, error) {
	return r.runFor(ctx, app, publishversion.TaskType)
}

func (r *Runner) runFor(ctx context.Context, app luis.ApplicationInfo, tasks ...string) (*Report, error) {
	rep := &Report{RunID: r.runID, App: app}
	return rep, r.run(ctx, rep, r.appSteps(rep, tasks...))
}

func (r *Runner) provisionTasks() []string {
	tasks := []string{
		addintents.TaskType,
		addentities.TaskType,
		addutterances.TaskType,
		trainversion.TaskType,
		checktrainstatus.TaskType,
	}
	if r.cfg.Training.Wait {
		tasks = append(tasks, waitfortraining.TaskType)
	}
	return append(tasks, publishversion.TaskType)
}

// appSteps builds the steps that act on rep.App, in the given order.
func (r *Runner) appSteps(rep *Report, tasks ...string) []step {
	steps := make([]step, 0, len(tasks))
	for _, task := range tasks {
		steps = append(steps, step{name: task, run: r.stepFunc(rep, task)})
	}
	return steps
}

func (r *Runner) stepFunc(rep *Report, task string) func(ctx context.Context) error {
	switch task {
	case addintents.TaskType:
		h := addintents.NewHandler(addintents.LoadConfig(r.cfg), r.client, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &addintents.Input{App: rep.App})
			return err
		}
	case addentities.TaskType:
		h := addentities.NewHandler(addentities.LoadConfig(r.cfg), r.client, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &addentities.Input{App: rep.App})
			return err
		}
	case addutterances.TaskType:
		h := addutterances.NewHandler(addutterances.LoadConfig(r.cfg), r.client, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &addutterances.Input{App: rep.App})
			return err
		}
	case trainversion.TaskType:
		h := trainversion.NewHandler(trainversion.LoadConfig(), r.client, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &trainversion.Input{App: rep.App})
			return err
		}
	case checktrainstatus.TaskType:
		h := checktrainstatus.NewHandler(checktrainstatus.LoadConfig(), r.client, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &checktrainstatus.Input{App: rep.App})
			return err
		}
	case waitfortraining.TaskType:
		h := waitfortraining.NewHandler(waitfortraining.LoadConfig(r.cfg), r.client, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &waitfortraining.Input{App: rep.App})
			return err
		}
	case publishversion.TaskType:
		h := publishversion.NewHandler(publishversion.LoadConfig(r.cfg), r.client, r.notifier, r.logger, r.out)
		return func(ctx context.Context) error {
			_, err := h.Execute(ctx, &publishversion.Input{App: rep.App})
			return err
		}
	default:
		return func(context.Context) error {
			return fmt.Errorf("unknown step %q", task)
		}
	}
}

func (r *Runner) run(ctx context.Context, rep *Report, steps []step) error {
	var continued []error

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, decision := r.runStep(ctx, rep, s)
		rep.Results = append(rep.Results, res)
		if res.Err == nil {
			continue
		}

		if s.required {
			decision = Abort
		}
		code := apperrors.CodeOf(res.Err)
		log := r.logger.WithError(res.Err).WithFields(map[string]interface{}{
			"step":     s.name,
			"decision": decision.String(),
			"code":     string(code),
			"category": apperrors.GetErrorCategory(code),
		})

		if decision != Continue {
			log.Error("provisioning aborted", nil)
			return errors.Join(append(continued, res.Err)...)
		}

		log.Warn("step failed, continuing", nil)
		continued = append(continued, res.Err)
	}

	return errors.Join(continued...)
}

// runStep runs s until it succeeds or the policy stops retrying it.
func (r *Runner) runStep(ctx context.Context, rep *Report, s step) (StepResult, Decision) {
	res := StepResult{Step: s.name}
	start := time.Now()

	for {
		res.Attempts++
		res.Err = r.attempt(ctx, rep, s, res.Attempts)
		if res.Err == nil {
			res.Duration = time.Since(start)
			r.record(ctx, rep, res)
			return res, Continue
		}

		decision := r.policy(s.name, res.Err, res.Attempts)
		if decision == Retry && ctx.Err() == nil {
			r.logger.Warn("retrying step", map[string]interface{}{
				"step":    s.name,
				"attempt": res.Attempts,
				"error":   res.Err.Error(),
			})
			continue
		}
		if decision == Retry {
			decision = Abort
		}

		res.Duration = time.Since(start)
		r.record(ctx, rep, res)
		return res, decision
	}
}

func (r *Runner) attempt(ctx context.Context, rep *Report, s step, attempt int) error {
	if r.obs == nil {
		return s.run(ctx)
	}

	spanCtx, span := r.obs.StartSpan(ctx, s.name)
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", r.runID.String()),
		attribute.String("luis.app_id", rep.App.ID),
		attribute.String("luis.version", rep.App.Version),
		attribute.Int("attempt", attempt),
	)

	err := s.run(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *Runner) record(ctx context.Context, rep *Report, res StepResult) {
	status := database.StepStatusSucceeded
	var code, detail string
	if res.Err != nil {
		status = database.StepStatusFailed
		code = string(apperrors.CodeOf(res.Err))
		detail = res.Err.Error()
		metrics.StepsFailed.WithLabelValues(res.Step, code).Inc()
	} else {
		metrics.StepsCompleted.WithLabelValues(res.Step).Inc()
	}

	if r.obs != nil {
		r.obs.RecordStep(ctx, res.Step, status, res.Duration)
	}

	if r.ledger == nil {
		return
	}
	err := r.ledger.RecordStep(ctx, database.RunStep{
		RunID:     r.runID,
		AppID:     rep.App.ID,
		Version:   rep.App.Version,
		Step:      res.Step,
		Status:    status,
		ErrorCode: code,
		Detail:    detail,
		Duration:  res.Duration,
	})
	if err != nil {
		r.logger.Warn("failed to record step", map[string]interface{}{
			"step":  res.Step,
			"error": err.Error(),
		})
	}
}

func (r *Runner) saveState(ctx context.Context, app luis.ApplicationInfo) {
	if r.state == nil {
		return
	}
	if err := r.state.SaveApplication(ctx, r.cfg.Application.Name, app); err != nil {
		r.logger.Warn("failed to save application state", map[string]interface{}{
			"appId": app.ID,
			"error": err.Error(),
		})
	}
}

// ResolveApplication picks the application a single-step command acts on:
// an explicit id wins, otherwise the last one saved for the configured name.
func (r *Runner) ResolveApplication(ctx context.Context, appID, version string) (luis.ApplicationInfo, error) {
	if appID != "" {
		if version == "" {
			version = r.cfg.Application.Version
		}
		return luis.ApplicationInfo{ID: appID, Version: version}, nil
	}

	if r.state == nil {
		return luis.ApplicationInfo{}, apperrors.NewConfigInvalidError("--app-id is required when no state store is configured")
	}

	app, err := r.state.LoadApplication(ctx, r.cfg.Application.Name)
	if err != nil {
		return luis.ApplicationInfo{}, err
	}
	if version != "" {
		app.Version = version
	}
	return app, nil
}
