// Package store is the persistence gateway: it loads the journal from its
// durable slot and writes it back after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benvon/joyjar/internal/logger"
	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/schema"
	"github.com/benvon/joyjar/internal/storage"
	"github.com/benvon/joyjar/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LoadSource says where the state returned by Load came from
type LoadSource string

const (
	SourceStored LoadSource = "stored"
	SourceSeeded LoadSource = "seeded"
)

// RejectedSuffix names the sibling slot that keeps a stored document Load
// could not fully read, so the next Save does not destroy it
const RejectedSuffix = ".rejected"

// Gateway reads and writes AppState through a storage.Slot
type Gateway struct {
	slot storage.Slot
	log  *zap.Logger
	now  func() time.Time

	mu       sync.Mutex
	rejected []byte
}

// Option configures a Gateway
type Option func(*Gateway)

// WithClock overrides the clock used for seeding and updatedAt stamps
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New creates a gateway over slot
func New(slot storage.Slot, log *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		slot: slot,
		log:  logger.OrNop(log),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load returns the stored state, or a freshly seeded one when the slot is
// empty, unreadable, or holds a document that fails validation. It never fails.
func (g *Gateway) Load(ctx context.Context) models.AppState {
	state, _ := g.LoadWithSource(ctx)
	return state
}

// LoadWithSource is Load that also reports whether the state was seeded
func (g *Gateway) LoadWithSource(ctx context.Context) (models.AppState, LoadSource) {
	ctx, span := telemetry.StartSpan(ctx, "store.load")
	defer span.End()

	doc, err := g.slot.Read(ctx)
	switch {
	case errors.Is(err, storage.ErrSlotEmpty):
		g.log.Info("state_load_seeded", zap.String("reason", "empty_slot"))
		return models.SeedState(g.now()), SourceSeeded
	case err != nil:
		err = fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
		telemetry.RecordError(span, err)
		g.log.Warn("state_load_fallback",
			zap.String("reason", "storage_unavailable"),
			zap.String("error", logger.SanitizeError(err)),
		)
		return models.SeedState(g.now()), SourceSeeded
	}

	state, report, err := schema.DecodeWithReport(doc)
	if err != nil || len(report.Dropped) > 0 {
		g.keepRejected(doc)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		g.log.Warn("state_load_fallback",
			zap.String("reason", "invalid_format"),
			zap.String("error", logger.SanitizeError(err)),
		)
		return models.SeedState(g.now()), SourceSeeded
	}

	for _, d := range report.Dropped {
		g.log.Warn("state_record_dropped",
			zap.String("kind", d.Kind),
			zap.Int("index", d.Index),
			zap.String("id", logger.SanitizeString(d.ID, logger.MaxTitleLength)),
			zap.String("error", logger.SanitizeError(d.Err)),
		)
		g.log.Debug("state_record_dropped_raw",
			zap.Int("index", d.Index),
			zap.String("raw", logger.SanitizeDebugContent(d.Raw)),
		)
	}

	span.SetAttributes(
		attribute.Int("wins", len(state.Wins)),
		attribute.Int("dropped", len(report.Dropped)),
	)
	g.log.Debug("state_loaded",
		zap.Int("wins", len(state.Wins)),
		zap.Int("analyses", len(state.AnalysisHistory)),
	)
	return state, SourceStored
}

// Save stamps updatedAt and replaces the stored document. The stamped state is
// returned even when the write fails; the error then matches
// models.ErrStorageUnavailable and the caller keeps serving the in-memory copy.
func (g *Gateway) Save(ctx context.Context, state models.AppState) (models.AppState, error) {
	ctx, span := telemetry.StartSpan(ctx, "store.save", attribute.Int("wins", len(state.Wins)))
	defer span.End()

	state.UpdatedAt = g.now()
	state.Version = models.SchemaVersion
	if state.CreatedAt.IsZero() {
		state.CreatedAt = state.UpdatedAt
	}

	doc, err := schema.Encode(state)
	if err == nil {
		g.backupRejected(ctx)
		err = g.slot.Write(ctx, doc)
	}
	if err != nil {
		err = fmt.Errorf("%w: failed to save state: %w", models.ErrStorageUnavailable, err)
		telemetry.RecordError(span, err)
		g.log.Error("state_save_failed", zap.String("error", logger.SanitizeError(err)))
		return state, err
	}

	g.log.Debug("state_saved", zap.Int("bytes", len(doc)))
	return state, nil
}

func (g *Gateway) keepRejected(doc []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rejected = append([]byte(nil), doc...)
}

// backupRejected copies a document Load could not fully read into the
// RejectedSuffix sibling slot before it is overwritten
func (g *Gateway) backupRejected(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rejected == nil {
		return
	}

	sib, ok := g.slot.(storage.Sibling)
	if !ok {
		g.log.Warn("state_backup_unsupported")
		g.rejected = nil
		return
	}
	backup := sib.Sibling(RejectedSuffix)
	if err := backup.Write(ctx, g.rejected); err != nil {
		// retried on the next save
		g.log.Error("state_backup_failed", zap.String("error", logger.SanitizeError(err)))
		return
	}
	g.log.Warn("state_backup_written",
		zap.String("suffix", RejectedSuffix),
		zap.Int("bytes", len(g.rejected)),
	)
	g.rejected = nil
}

// Close releases the underlying slot
func (g *Gateway) Close() error {
	return g.slot.Close()
}
