package token

import "sync"

// EventKind identifies an authentication lifecycle event
type EventKind string

const (
	// EventTokenRefreshed fires after a successful refresh; carries the new access token
	EventTokenRefreshed EventKind = "token_refreshed"
	// EventTokenExpired fires once when a refresh is terminally exhausted
	EventTokenExpired EventKind = "token_expired"
	// EventAuthenticationFailed fires when the backend rejects the refresh credentials
	EventAuthenticationFailed EventKind = "authentication_failed"
	// EventTokensCleared fires when stored credentials are wiped
	EventTokensCleared EventKind = "tokens_cleared"
)

// Event is broadcast to registered listeners. Events are ephemeral: there
// is no replay for late subscribers.
type Event struct {
	Kind        EventKind
	AccessToken string // set for EventTokenRefreshed
	Reason      string // set for EventTokenExpired
	Err         error  // set for EventAuthenticationFailed
}

// Handler receives events synchronously with the state transition that
// caused them
type Handler func(Event)

// Emitter is a subscription list keyed by event kind. Delivery is
// synchronous and at-least-once for every handler registered at the
// moment of emission.
type Emitter struct {
	mu       sync.Mutex
	nextID   int
	handlers map[EventKind]map[int]Handler
}

// NewEmitter creates an empty emitter
func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[EventKind]map[int]Handler),
	}
}

// Subscribe registers a handler for the given event kind and returns an
// unsubscribe function. Unsubscribing twice is a no-op.
func (e *Emitter) Subscribe(kind EventKind, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID

	if e.handlers[kind] == nil {
		e.handlers[kind] = make(map[int]Handler)
	}
	e.handlers[kind][id] = h

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers[kind], id)
	}
}

// Emit delivers the event to every handler currently registered for its
// kind. Handlers run on the emitting goroutine; the handler snapshot is
// taken under lock so a handler may safely subscribe or unsubscribe.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	snapshot := make([]Handler, 0, len(e.handlers[ev.Kind]))
	for _, h := range e.handlers[ev.Kind] {
		snapshot = append(snapshot, h)
	}
	e.mu.Unlock()

	for _, h := range snapshot {
		h(ev)
	}
}
