package discord

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

const meterName = "github.com/KirkDiggler/dnd-sheet-engine/internal/handlers/discord"

// Metrics holds the instruments recorded for every /sheet interaction
type Metrics struct {
	// Commands counts interactions. Attributes: "command", "status".
	Commands metric.Int64Counter

	// Duration tracks time spent handling an interaction. Attribute: "command".
	Duration metric.Float64Histogram
}

// NewMetrics creates the handler instruments from mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.Commands, err = m.Int64Counter("sheet.commands",
		metric.WithDescription("Sheet interactions by command and status."),
	); err != nil {
		return nil, dnderr.Wrap(err, "failed to create command counter")
	}
	if met.Duration, err = m.Float64Histogram("sheet.command.duration",
		metric.WithDescription("Latency of sheet interactions."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, dnderr.Wrap(err, "failed to create command histogram")
	}
	return met, nil
}

// Record adds one interaction. The status is "ok" or the error code.
func (m *Metrics) Record(ctx context.Context, command string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = string(dnderr.GetCode(err))
	}
	m.Commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	))
	m.Duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("command", command),
	))
}
