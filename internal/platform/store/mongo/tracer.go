package mongo

import (
	"context"
	"fmt"

	"pfascheck/internal/platform/logger"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// CommandLogger receives driver command events
type CommandLogger interface {
	Started(ctx context.Context, ev *event.CommandStartedEvent)
	Succeeded(ctx context.Context, ev *event.CommandSucceededEvent)
	Failed(ctx context.Context, ev *event.CommandFailedEvent)
}

// Tracer logs finished commands at info and failures at warn; starts are debug only
func Tracer(root logger.Logger) CommandLogger {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "mongo").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) Started(ctx context.Context, ev *event.CommandStartedEvent) {
	z.with(ctx, z.log.Debug()).
		Str("db", ev.DatabaseName).
		Str("command", ev.CommandName).
		Int64("op_id", ev.RequestID).
		Msg("mongo command started")
}

func (z *zlTracer) Succeeded(ctx context.Context, ev *event.CommandSucceededEvent) {
	z.with(ctx, z.log.Info()).
		Str("command", ev.CommandName).
		Int64("op_id", ev.RequestID).
		Float64("elapsed_ms", float64(ev.Duration.Microseconds())/1000.0).
		Msg("mongo command")
}

func (z *zlTracer) Failed(ctx context.Context, ev *event.CommandFailedEvent) {
	z.with(ctx, z.log.Warn()).
		Str("command", ev.CommandName).
		Int64("op_id", ev.RequestID).
		Float64("elapsed_ms", float64(ev.Duration.Microseconds())/1000.0).
		Str("error", fmt.Sprint(ev.Failure)).
		Msg("mongo command failed")
}

func (z *zlTracer) with(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if id := logger.RequestID(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	return e
}
