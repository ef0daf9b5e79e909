// Package graph provides a minimal sequential state graph with node listeners.
//
// It is the orchestration layer behind the persona pipeline: nodes are added
// with a typed state-transforming function, connected by single outgoing
// edges, and executed strictly one after another. Listeners observe node
// start/complete/error events without coupling the graph to any caller.
package graph

import (
	"context"
	"errors"
	"fmt"
)

// END is a special constant used to represent the end node in the graph.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")
)

// Node represents a node in the graph.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function transforms the state. It is only invoked after every
	// preceding node has completed successfully.
	Function func(ctx context.Context, state S) (S, error)
}

// NodeError wraps an error produced by a node, identifying the node.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// StateGraph is a sequential graph of named state-transforming nodes.
type StateGraph[S any] struct {
	nodes      map[string]Node[S]
	edges      map[string]string
	entryPoint string
	listeners  []Listener[S]
}

// New creates an empty StateGraph.
func New[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes: make(map[string]Node[S]),
		edges: make(map[string]string),
	}
}

// AddNode adds a new node to the graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge connects "from" to "to". Each node has at most one outgoing edge;
// adding a second one replaces the first.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges[from] = to
}

// SetEntryPoint sets the entry point node name for the graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// AddListener registers a listener notified of every node event.
func (g *StateGraph[S]) AddListener(l Listener[S]) {
	g.listeners = append(g.listeners, l)
}

// Runnable is a compiled graph that can be invoked.
type Runnable[S any] struct {
	graph *StateGraph[S]
}

// Compile validates the graph and returns a Runnable.
func (g *StateGraph[S]) Compile() (*Runnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}
	return &Runnable[S]{graph: g}, nil
}

// Invoke executes the graph from the entry point with the given state.
// Nodes run strictly in edge order; node N+1 is never started before node N
// has returned successfully. On error the state produced so far is returned
// together with a *NodeError identifying the failing node.
func (r *Runnable[S]) Invoke(ctx context.Context, initialState S, extra ...Listener[S]) (S, error) {
	state := initialState
	listeners := append(append([]Listener[S]{}, r.graph.listeners...), extra...)
	current := r.graph.entryPoint

	for current != END {
		node, ok := r.graph.nodes[current]
		if !ok {
			return state, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}

		if err := ctx.Err(); err != nil {
			return state, err
		}

		notify(ctx, listeners, EventStart, node.Name, state, nil)

		next, err := node.Function(ctx, state)
		if err != nil {
			notify(ctx, listeners, EventError, node.Name, state, err)
			return state, &NodeError{Node: node.Name, Err: err}
		}
		state = next

		notify(ctx, listeners, EventComplete, node.Name, state, nil)

		to, ok := r.graph.edges[current]
		if !ok {
			return state, fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
		}
		current = to
	}

	return state, nil
}
