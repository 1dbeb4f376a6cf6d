package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
)

var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
	ErrUpstream     = errors.New("upstream")     // 502
)

const publishTimeout = 5 * time.Second

// publish never fails the caller; a broken broker is only logged.
func publish(ctx context.Context, p mykafka.Publisher, topic, key, kind string, data any) {
	if p == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishEvent(pubCtx, topic, key, mykafka.NewEvent(kind, data)); err != nil {
		logging.FromContext(ctx).Warnw("publish_event_failed", "topic", topic, "type", kind, "error", err)
	}
}
