package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// counterValue sums the data points of an Int64 counter whose attribute key
// has the given value.
func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name, key, value string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is %T, want Sum[int64]", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestObserver_CountsEvents(t *testing.T) {
	m, reader := newTestMetrics(t)
	bus := events.NewBus(nil)
	bus.SubscribeAll(m.Observer())

	bus.Publish(events.SceneSwitch{From: "stairs", To: "hallway"})
	bus.Publish(events.SceneSwitch{From: "hallway", To: "backyard"})
	bus.Publish(events.SceneSwitch{From: "backyard", To: "hallway"})
	bus.Publish(events.AcquisitionComplete{Item: inventory.Item{ID: "broom"}})
	bus.Publish(events.Signal{Name: events.ShowHappyBirthday})

	rm := collect(t, reader)
	if got := counterValue(t, rm, "adventure.events.published", "event", string(events.SceneChanged)); got != 3 {
		t.Errorf("scene-changed events = %d, want 3", got)
	}
	if got := counterValue(t, rm, "adventure.scene.changes", "scene", "hallway"); got != 2 {
		t.Errorf("hallway activations = %d, want 2", got)
	}
	if got := counterValue(t, rm, "adventure.items.acquired", "item", "broom"); got != 1 {
		t.Errorf("broom acquisitions = %d, want 1", got)
	}
	if got := counterValue(t, rm, "adventure.games.ended", "outcome", "curse_broken"); got != 1 {
		t.Errorf("curse_broken endings = %d, want 1", got)
	}
}

func TestObserver_GameOver(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.Observer()(events.Over{Reason: "midnight"})

	rm := collect(t, reader)
	if got := counterValue(t, rm, "adventure.games.ended", "outcome", "midnight"); got != 1 {
		t.Errorf("midnight endings = %d, want 1", got)
	}
}

func TestActiveSessions(t *testing.T) {
	m, reader := newTestMetrics(t)
	live := m.LiveSessions()
	live(1)
	live(1)
	live(-1)

	met := findMetric(collect(t, reader), "adventure.active_sessions")
	if met == nil {
		t.Fatal("active sessions metric not found")
	}
	sum := met.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Errorf("active sessions = %+v, want 1", sum.DataPoints)
	}
}

func TestRecordCommand(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordCommand(context.Background(), "click", 3*time.Millisecond)

	met := findMetric(collect(t, reader), "adventure.command.duration")
	if met == nil {
		t.Fatal("command duration metric not found")
	}
	hist := met.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("histogram points = %+v", hist.DataPoints)
	}
}

func TestMiddleware_RecordsRoute(t *testing.T) {
	m, reader := newTestMetrics(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(m)(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/abc", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	met := findMetric(collect(t, reader), "adventure.http.request.duration")
	if met == nil {
		t.Fatal("http duration metric not found")
	}
	hist := met.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 {
		t.Fatalf("data points = %d, want 1", len(hist.DataPoints))
	}
	route, _ := hist.DataPoints[0].Attributes.Value("route")
	if route.AsString() != "GET /v1/sessions/{id}" {
		t.Errorf("route = %q", route.AsString())
	}
}
