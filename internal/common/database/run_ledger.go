package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const createRunStepsTable = `
CREATE TABLE IF NOT EXISTS provisioning_run_steps (
	id          BIGSERIAL PRIMARY KEY,
	run_id      UUID NOT NULL,
	app_id      TEXT NOT NULL DEFAULT '',
	version_id  TEXT NOT NULL DEFAULT '',
	step        TEXT NOT NULL,
	status      TEXT NOT NULL,
	error_code  TEXT NOT NULL DEFAULT '',
	detail      TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	recorded_at TIMESTAMPTZ NOT NULL
)`

const insertRunStep = `
INSERT INTO provisioning_run_steps
	(run_id, app_id, version_id, step, status, error_code, detail, duration_ms, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const (
	StepStatusSucceeded = "succeeded"
	StepStatusFailed    = "failed"
)

// RunStep is one row of the provisioning audit trail.
type RunStep struct {
	RunID      uuid.UUID
	AppID      string
	Version    string
	Step       string
	Status     string
	ErrorCode  string
	Detail     string
	Duration   time.Duration
	RecordedAt time.Time
}

// RunLedger appends provisioning step outcomes to Postgres.
type RunLedger struct {
	db *sql.DB
}

func NewRunLedger(db *sql.DB) *RunLedger {
	return &RunLedger{db: db}
}

func (l *RunLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createRunStepsTable); err != nil {
		return fmt.Errorf("failed to create run ledger table: %w", err)
	}
	return nil
}

func (l *RunLedger) RecordStep(ctx context.Context, step RunStep) error {
	if step.RecordedAt.IsZero() {
		step.RecordedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, insertRunStep,
		step.RunID.String(),
		step.AppID,
		step.Version,
		step.Step,
		step.Status,
		step.ErrorCode,
		step.Detail,
		step.Duration.Milliseconds(),
		step.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record step %s: %w", step.Step, err)
	}
	return nil
}
