package scene

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/etokheim/scene-extrapolation/pkg/postgres"
)

// ActivationRecord is one row of the activation journal
type ActivationRecord struct {
	ActivationID       string
	SceneName          string
	TargetTime         time.Time
	CurrentEvent       string
	NextEvent          string
	Progress           float64
	TransitionSeconds  int
	BrightnessModifier int
	TransitionModifier int
	ShiftSeconds       int
	UpdateCount        int
	FailureCount       int
}

// Journal records finished activations to Postgres for later inspection.
// Journal writes are best effort; a failed insert never fails the
// activation that produced it.
type Journal struct {
	db     postgres.Client
	logger *slog.Logger
}

// NewJournal creates an activation journal on an already connected client
func NewJournal(db postgres.Client, logger *slog.Logger) *Journal {
	return &Journal{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the journal table if it does not exist
func (j *Journal) EnsureSchema(ctx context.Context) error {
	_, err := j.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scene_activations (
			id                  UUID PRIMARY KEY,
			scene_name          TEXT NOT NULL,
			target_time         TIMESTAMPTZ NOT NULL,
			current_event       TEXT NOT NULL,
			next_event          TEXT NOT NULL,
			progress            DOUBLE PRECISION NOT NULL,
			transition_seconds  INTEGER NOT NULL,
			brightness_modifier INTEGER NOT NULL,
			transition_modifier INTEGER NOT NULL,
			shift_seconds       INTEGER NOT NULL,
			update_count        INTEGER NOT NULL,
			failure_count       INTEGER NOT NULL,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create scene_activations table: %w", err)
	}
	return nil
}

// Record inserts one activation row
func (j *Journal) Record(ctx context.Context, record ActivationRecord) error {
	_, err := j.db.Exec(ctx, `
		INSERT INTO scene_activations (
			id, scene_name, target_time, current_event, next_event, progress,
			transition_seconds, brightness_modifier, transition_modifier,
			shift_seconds, update_count, failure_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		record.ActivationID,
		record.SceneName,
		record.TargetTime,
		record.CurrentEvent,
		record.NextEvent,
		record.Progress,
		record.TransitionSeconds,
		record.BrightnessModifier,
		record.TransitionModifier,
		record.ShiftSeconds,
		record.UpdateCount,
		record.FailureCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record activation %s: %w", record.ActivationID, err)
	}

	j.logger.Debug("Recorded activation", "activation_id", record.ActivationID)
	return nil
}
