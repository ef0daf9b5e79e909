package graph

import "context"

// Event represents different types of node events.
type Event string

const (
	// EventStart indicates a node has started execution
	EventStart Event = "start"

	// EventComplete indicates a node has completed successfully
	EventComplete Event = "complete"

	// EventError indicates a node encountered an error
	EventError Event = "error"
)

// Listener defines the interface for node event listeners.
type Listener[S any] interface {
	// OnNodeEvent is called when a node event occurs. Events are delivered
	// in execution order, on the invoking goroutine.
	OnNodeEvent(ctx context.Context, event Event, nodeName string, state S, err error)
}

// ListenerFunc is a function adapter for Listener.
type ListenerFunc[S any] func(ctx context.Context, event Event, nodeName string, state S, err error)

// OnNodeEvent implements the Listener interface.
func (f ListenerFunc[S]) OnNodeEvent(ctx context.Context, event Event, nodeName string, state S, err error) {
	f(ctx, event, nodeName, state, err)
}

func notify[S any](ctx context.Context, listeners []Listener[S], event Event, nodeName string, state S, err error) {
	for _, l := range listeners {
		func() {
			// A panicking listener must not take down the run.
			defer func() { _ = recover() }()
			l.OnNodeEvent(ctx, event, nodeName, state, err)
		}()
	}
}
