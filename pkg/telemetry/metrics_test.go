package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveLayout(t *testing.T) {
	hub := NewHub()
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	m := NewMetrics(hub)
	m.ObserveLayout(2*time.Millisecond, 2, 3, 280)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LayoutPasses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.VisibleComponents))
	assert.Equal(t, 280.0, testutil.ToFloat64(m.TotalContentHeight))

	ev := <-events
	assert.Equal(t, EventLayoutPass, ev.Type)
	assert.Equal(t, 280, ev.Data["contentHeight"])
}

func TestMetrics_ObserveScroll(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveScroll("down", StepSegment)
	m.ObserveScroll("down", StepSegment)
	m.ObserveScroll("up", StepWindow)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScrollSteps.WithLabelValues("down", StepSegment)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrollSteps.WithLabelValues("up", StepWindow)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveLayout(time.Millisecond, 1, 1, 10)
		m.ObserveSubstitution(0, 1, 1)
		m.ObserveScroll("up", StepIgnored)
		m.ObserveAnimationFrame("x")
		m.ObserveFrame()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveSubstitution(1, 200, 300)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "slate_layout_substitutions_total 1")
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics(nil)
	b := NewMetrics(nil)
	a.ObserveFrame()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Frames))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Frames))
}

func TestTracerProvider_ExportsSpans(t *testing.T) {
	var out bytes.Buffer
	tp, err := NewTracerProvider(&out, "slate-test", "test")
	require.NoError(t, err)

	_, span := tp.Tracer().Start(context.Background(), "layout")
	span.SetAttributes(AttrVisible.Int(2))
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
	assert.True(t, strings.Contains(out.String(), `"Name":"layout"`) || strings.Contains(out.String(), `"Name": "layout"`))
}
