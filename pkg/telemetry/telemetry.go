// Package telemetry exposes layout and scroll activity as prometheus
// metrics, OpenTelemetry spans and an in-process event hub.
package telemetry

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// EventType identifies the kind of telemetry event.
type EventType string

const (
	EventLayoutPass           EventType = "layout.pass"
	EventComponentSubstituted EventType = "layout.substituted"
	EventScrollWindow         EventType = "scroll.window"
	EventScrollSegment        EventType = "scroll.segment"
	EventAnimationAdvance     EventType = "animation.advance"
	EventConfigReloaded       EventType = "config.reloaded"
	EventPreferenceChanged    EventType = "prefs.changed"
)

// Event describes a single occurrence on a screen.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"sessionId,omitempty"`
	Screen    string         `json:"screen,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// SubscriberBuffer is the number of events a slow subscriber may fall
// behind before events are dropped for it.
const SubscriberBuffer = 64

type subscriber struct {
	ch    chan Event
	types []EventType
}

func (s *subscriber) wants(t EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Hub fans out telemetry events to any number of subscribers. Publishing
// never blocks the UI goroutine.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool
	session     string
	dropped     atomic.Uint64
}

// NewHub constructs a telemetry hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*subscriber]struct{})}
}

// SetSession stamps every later event that has no session id.
func (h *Hub) SetSession(id string) {
	h.mu.Lock()
	h.session = id
	h.mu.Unlock()
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (h *Hub) Dropped() uint64 {
	if h == nil {
		return 0
	}
	return h.dropped.Load()
}

// Publish delivers event to every subscriber interested in its type.
// Safe on a nil hub.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = h.session
	}
	for sub := range h.subscribers {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel receiving future events of the given types,
// or of every type when none are given, and a func that unsubscribes.
func (h *Hub) Subscribe(types ...EventType) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	sub := &subscriber{ch: make(chan Event, SubscriberBuffer), types: types}
	h.subscribers[sub] = struct{}{}
	return sub.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[sub]; ok {
			delete(h.subscribers, sub)
			close(sub.ch)
		}
	}
}

// Close unsubscribes all listeners and prevents future publications.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		close(sub.ch)
		delete(h.subscribers, sub)
	}
}
