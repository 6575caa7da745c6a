package dag

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

var (
	ErrEdgeAlreadyExists = errors.New("edge already exists")
	ErrCycleDetected     = errors.New("cycle detected")
	ErrVertexNotFound    = errors.New("vertex not found")
)

// CycleError is returned by AddEdge when the edge would close a cycle.
// Path starts and ends with the source vertex of the rejected edge.
type CycleError[ID comparable] struct {
	Path []ID
}

func (e *CycleError[ID]) Error() string {
	return fmt.Sprintf("%s: %v", ErrCycleDetected, e.Path)
}

func (e *CycleError[ID]) Unwrap() error {
	return ErrCycleDetected
}

// DAG is a directed acyclic graph which remembers the order vertices and edges were added in,
// so every traversal is deterministic.
type DAG[ID comparable, T any] struct {
	order    []ID
	vertices map[ID]T
	edges    map[ID][]ID // adjacency list: source -> targets in insertion order
	inDegree map[ID]int
}

func New[ID comparable, T any]() *DAG[ID, T] {
	return &DAG[ID, T]{
		vertices: make(map[ID]T),
		edges:    make(map[ID][]ID),
		inDegree: make(map[ID]int),
	}
}

// VertexCount returns the total number of vertices in the DAG
func (d *DAG[ID, T]) VertexCount() int {
	return len(d.vertices)
}

// EdgeCount returns the total number of edges in the DAG
func (d *DAG[ID, T]) EdgeCount() int {
	count := 0
	for _, targets := range d.edges {
		count += len(targets)
	}
	return count
}

// VertexExists checks if a vertex with the given ID exists
func (d *DAG[ID, T]) VertexExists(id ID) bool {
	_, exists := d.vertices[id]
	return exists
}

// EdgeExists checks if an edge from source to target exists
func (d *DAG[ID, T]) EdgeExists(source, target ID) bool {
	return slices.Contains(d.edges[source], target)
}

// GetVertex returns the vertex data for the given ID and whether it exists
func (d *DAG[ID, T]) GetVertex(id ID) (T, bool) {
	val, exists := d.vertices[id]
	return val, exists
}

// OutEdges returns targets of the edges leaving id.
func (d *DAG[ID, T]) OutEdges(id ID) []ID {
	return slices.Clone(d.edges[id])
}

// Clone returns a copy of the graph sharing vertex values with d.
func (d *DAG[ID, T]) Clone() *DAG[ID, T] {
	clone := &DAG[ID, T]{
		order:    slices.Clone(d.order),
		vertices: maps.Clone(d.vertices),
		edges:    make(map[ID][]ID, len(d.edges)),
		inDegree: maps.Clone(d.inDegree),
	}

	for source, targets := range d.edges {
		clone.edges[source] = slices.Clone(targets)
	}

	return clone
}

func (d *DAG[ID, T]) AddVertexIfNotExist(id ID, v T) {
	if _, exists := d.vertices[id]; !exists {
		d.order = append(d.order, id)
		d.vertices[id] = v
		d.inDegree[id] = 0
	}
}

func (d *DAG[ID, T]) AddEdge(source, target ID) error {
	if !d.VertexExists(source) || !d.VertexExists(target) {
		return ErrVertexNotFound
	}

	if d.EdgeExists(source, target) {
		return ErrEdgeAlreadyExists
	}

	// The edge closes a cycle if source is already reachable from target.
	if path := d.path(target, source); path != nil {
		return &CycleError[ID]{Path: append([]ID{source}, path...)}
	}

	d.edges[source] = append(d.edges[source], target)
	d.inDegree[target]++

	return nil
}

// TopologicalOrder iterates vertices with Kahn's algorithm, sources first. Ties are broken by
// vertex insertion order and then by edge insertion order.
func (d *DAG[ID, T]) TopologicalOrder() iter.Seq2[ID, T] {
	inDegreeCopy := maps.Clone(d.inDegree)

	var queue []ID
	for _, id := range d.order {
		if inDegreeCopy[id] == 0 {
			queue = append(queue, id)
		}
	}

	return func(yield func(ID, T) bool) {
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if !yield(current, d.vertices[current]) {
				break
			}

			for _, neighbor := range d.edges[current] {
				inDegreeCopy[neighbor]--
				if inDegreeCopy[neighbor] == 0 {
					queue = append(queue, neighbor)
				}
			}
		}
	}
}

// path returns vertices on a path from -> ... -> to, or nil if to is unreachable.
func (d *DAG[ID, T]) path(from, to ID) []ID {
	visited := make(map[ID]bool)

	var dfs func(ID) []ID
	dfs = func(vertex ID) []ID {
		if vertex == to {
			return []ID{vertex}
		}
		if visited[vertex] {
			return nil
		}
		visited[vertex] = true

		for _, neighbor := range d.edges[vertex] {
			if rest := dfs(neighbor); rest != nil {
				return append([]ID{vertex}, rest...)
			}
		}
		return nil
	}

	return dfs(from)
}
