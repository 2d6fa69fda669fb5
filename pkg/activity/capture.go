package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps every normalized event it receives. Err, when set, is
// returned from Notify after the event is stored.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Transitions returns a copy of the captured store transition events.
func (h *CaptureHook) Transitions() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Event
	for _, event := range h.Events {
		if event.ObjectType == ObjectTypeTransition {
			out = append(out, event)
		}
	}
	return out
}

// Last returns the most recent event, if any.
func (h *CaptureHook) Last() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Events) == 0 {
		return Event{}, false
	}
	return h.Events[len(h.Events)-1], true
}
