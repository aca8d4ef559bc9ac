package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "slate"

// Scroll step kinds.
const (
	StepSegment = "segment"
	StepWindow  = "window"
	StepIgnored = "ignored"
)

// Metrics holds the collectors recorded by the layout engine. A nil
// *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	LayoutPasses       prometheus.Counter
	LayoutDuration     prometheus.Histogram
	Substitutions      prometheus.Counter
	ScrollSteps        *prometheus.CounterVec
	VisibleComponents  prometheus.Gauge
	TotalContentHeight prometheus.Gauge
	AnimationFrames    prometheus.Counter
	Frames             prometheus.Counter

	hub *Hub
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics(hub *Hub) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LayoutPasses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "passes_total",
			Help:      "Total number of layout passes",
		}),
		LayoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout pass duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
		}),
		Substitutions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "substitutions_total",
			Help:      "Components replaced by a does-not-fit placeholder",
		}),
		ScrollSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scroll",
			Name:      "steps_total",
			Help:      "Scroll inputs by outcome",
		}, []string{"direction", "kind"}),
		VisibleComponents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "visible_components",
			Help:      "Components in the window after the last layout pass",
		}),
		TotalContentHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "content_height",
			Help:      "Total content height after the last layout pass",
		}),
		AnimationFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "animation",
			Name:      "frames_total",
			Help:      "Animation frames advanced",
		}),
		Frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "frames_total",
			Help:      "Frames painted",
		}),
		hub: hub,
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLayout records a finished layout pass.
func (m *Metrics) ObserveLayout(elapsed time.Duration, visible, total, contentHeight int) {
	if m == nil {
		return
	}
	m.LayoutPasses.Inc()
	m.LayoutDuration.Observe(elapsed.Seconds())
	m.VisibleComponents.Set(float64(visible))
	m.TotalContentHeight.Set(float64(contentHeight))
	m.hub.Publish(Event{Type: EventLayoutPass, Data: map[string]any{
		"visible":       visible,
		"total":         total,
		"contentHeight": contentHeight,
		"elapsed":       elapsed.String(),
	}})
}

// ObserveSubstitution records a component replaced by a placeholder.
func (m *Metrics) ObserveSubstitution(index, width, height int) {
	if m == nil {
		return
	}
	m.Substitutions.Inc()
	m.hub.Publish(Event{Type: EventComponentSubstituted, Data: map[string]any{
		"index":  index,
		"width":  width,
		"height": height,
	}})
}

// ObserveScroll records a scroll input and how it was resolved.
func (m *Metrics) ObserveScroll(direction, kind string) {
	if m == nil {
		return
	}
	m.ScrollSteps.WithLabelValues(direction, kind).Inc()
	switch kind {
	case StepSegment:
		m.hub.Publish(Event{Type: EventScrollSegment, Data: map[string]any{"direction": direction}})
	case StepWindow:
		m.hub.Publish(Event{Type: EventScrollWindow, Data: map[string]any{"direction": direction}})
	}
}

// ObserveAnimationFrame records an animation step for a component.
func (m *Metrics) ObserveAnimationFrame(componentID string) {
	if m == nil {
		return
	}
	m.AnimationFrames.Inc()
	m.hub.Publish(Event{Type: EventAnimationAdvance, Data: map[string]any{"component": componentID}})
}

// ObserveFrame records a painted frame.
func (m *Metrics) ObserveFrame() {
	if m == nil {
		return
	}
	m.Frames.Inc()
}
