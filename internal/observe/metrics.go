// Package observe records game metrics through the OpenTelemetry metrics
// API and exposes them for Prometheus scraping.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

const meterName = "github.com/jwebster45206/adventure-engine"

// Metrics holds the instruments used by the API and the session observer.
type Metrics struct {
	// EventsPublished counts bus events by attribute "event".
	EventsPublished metric.Int64Counter
	// SceneChanges counts scene activations by attribute "scene".
	SceneChanges metric.Int64Counter
	// ItemsAcquired counts presented acquisitions by attribute "item".
	ItemsAcquired metric.Int64Counter
	// GamesEnded counts sessions that ended, by attribute "outcome".
	GamesEnded metric.Int64Counter

	// ActiveSessions follows the sessions a Manager holds in memory.
	ActiveSessions metric.Int64UpDownCounter

	// CommandDuration tracks command handling time by attribute "command".
	CommandDuration     metric.Float64Histogram
	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.EventsPublished, err = m.Int64Counter("adventure.events.published",
		metric.WithDescription("Events published on session buses by name."),
	); err != nil {
		return nil, err
	}
	if met.SceneChanges, err = m.Int64Counter("adventure.scene.changes",
		metric.WithDescription("Scene activations by destination scene."),
	); err != nil {
		return nil, err
	}
	if met.ItemsAcquired, err = m.Int64Counter("adventure.items.acquired",
		metric.WithDescription("Items that completed acquisition by item id."),
	); err != nil {
		return nil, err
	}
	if met.GamesEnded, err = m.Int64Counter("adventure.games.ended",
		metric.WithDescription("Sessions that reached an ending by outcome."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("adventure.active_sessions",
		metric.WithDescription("Number of sessions held in memory."),
	); err != nil {
		return nil, err
	}
	if met.CommandDuration, err = m.Float64Histogram("adventure.command.duration",
		metric.WithDescription("Time spent executing a player command."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("adventure.http.request.duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Observer returns a bus handler that counts the events of one session.
// Register it with Bus.SubscribeAll.
func (m *Metrics) Observer() events.Handler {
	return func(evt events.Event) {
		ctx := context.Background()
		m.EventsPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("event", string(evt.EventName()))))

		switch e := evt.(type) {
		case events.SceneSwitch:
			m.SceneChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("scene", e.To)))
		case events.AcquisitionComplete:
			m.ItemsAcquired.Add(ctx, 1, metric.WithAttributes(attribute.String("item", e.Item.ID)))
		case events.Over:
			m.GamesEnded.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "midnight")))
		case events.Signal:
			if e.Name == events.ShowHappyBirthday {
				m.GamesEnded.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "curse_broken")))
			}
		}
	}
}

// RecordCommand records how long a command of the given type took.
func (m *Metrics) RecordCommand(ctx context.Context, command string, d time.Duration) {
	m.CommandDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("command", command)))
}

// LiveSessions returns a callback for game.Options.LiveSessions.
func (m *Metrics) LiveSessions() func(delta int) {
	return func(delta int) {
		m.ActiveSessions.Add(context.Background(), int64(delta))
	}
}
