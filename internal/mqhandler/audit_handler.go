package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"backoffice/internal/events"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/pkg/metrics"
	"backoffice/pkg/util"
)

// AuditHandler appends an audit-log row for each consumed domain event.
// Redis SETNX dedup keeps redeliveries from producing duplicate rows.
type AuditHandler struct {
	action  string
	audits  *repository.AuditRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewAuditHandler(action string, audits *repository.AuditRepository, deduper *util.Deduper, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		action:  action,
		audits:  audits,
		deduper: deduper,
		logger:  logger,
	}
}

func (h *AuditHandler) Handle(ctx context.Context, data json.RawMessage) error {
	var env events.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Error("Failed to decode event",
			zap.String("action", h.action),
			zap.Error(err),
		)
		metrics.IncrementEventConsumed(h.action, "failed")
		// malformed payload: acking is correct, a redelivery cannot fix it
		return nil
	}

	key := util.FormatDedupKey(h.action, env.EventID)
	if !h.deduper.Claim(ctx, key) {
		h.logger.Debug("Duplicate event skipped",
			zap.String("action", h.action),
			zap.String("event_id", env.EventID),
		)
		metrics.IncrementEventConsumed(h.action, "duplicate")
		return nil
	}

	audit := &model.AuditLog{
		EventID: env.EventID,
		Actor:   env.Actor,
		Action:  h.action,
		Entity:  env.Entity,
		Detail:  env.Detail,
	}
	if err := h.audits.Insert(ctx, audit); err != nil {
		// release the claim so the nack-requeued delivery can retry
		h.deduper.Release(ctx, key)
		metrics.IncrementEventConsumed(h.action, "failed")
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	metrics.IncrementEventConsumed(h.action, "success")
	h.logger.Info("Audit log recorded",
		zap.String("action", h.action),
		zap.String("event_id", env.EventID),
		zap.String("entity", env.Entity),
	)
	return nil
}
