package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/servicebinding/pkg/binding"
)

// strategies lists every strategy that accepts string keys.
var strategies = []binding.Strategy{
	binding.StrategySnapshot,
	binding.StrategyConcurrent,
}

// newTestRegistry creates a registry with logging disabled.
func newTestRegistry[K comparable, V any](t *testing.T, opts ...Option) *Registry[K, V] {
	t.Helper()
	r, err := New[K, V](append([]Option{WithLogger(nil)}, opts...)...)
	require.NoError(t, err)
	return r
}

// logBuffer collects JSON log lines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) handler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(b, &slog.HandlerOptions{Level: level})
}

// records returns every log line decoded into a map.
func (b *logBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for _, line := range bytes.Split(b.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

// messages returns the msg field of every record.
func (b *logBuffer) messages(t *testing.T) []string {
	var msgs []string
	for _, rec := range b.records(t) {
		msgs = append(msgs, rec["msg"].(string))
	}
	return msgs
}

// recordingMetrics captures metric calls.
type recordingMetrics struct {
	mu        sync.Mutex
	binds     []int
	hits      int
	misses    int
	shutdowns int
	failures  int
}

func (m *recordingMetrics) RecordBind(_ context.Context, _ string, bindings int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binds = append(m.binds, bindings)
}

func (m *recordingMetrics) RecordLookup(_ context.Context, _ string, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *recordingMetrics) RecordShutdown(_ context.Context, _ string, _ time.Duration, failures int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdowns++
	m.failures += failures
}

// recordingSpans captures span lifecycle calls.
type recordingSpans struct {
	mu      sync.Mutex
	started []string
	ended   []error
	events  []string
}

func (s *recordingSpans) StartConfigureSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, "configure")
	return ctx, trace.SpanFromContext(ctx)
}

func (s *recordingSpans) StartShutdownSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, "shutdown")
	return ctx, trace.SpanFromContext(ctx)
}

func (s *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, err)
}

func (s *recordingSpans) AddSpanEvent(_ context.Context, name string, _ ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
}

// stopRecorder records the order in which services stop.
type stopRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *stopRecorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

// stoppable implements Stopper.
type stoppable struct {
	name string
	rec  *stopRecorder
	err  error
}

func (s *stoppable) Stop(_ context.Context) error {
	s.rec.record(s.name)
	return s.err
}

// closable implements io.Closer.
type closable struct {
	name string
	rec  *stopRecorder
}

func (c *closable) Close() error {
	c.rec.record(c.name)
	return nil
}

// panicky panics when stopped.
type panicky struct{}

func (panicky) Stop(_ context.Context) error {
	panic("stop exploded")
}
