// Package graph orders dependency graphs and reports the nodes that sit on
// cycles.
package graph

import (
	"github.com/hashicorp/go-set/v3"
)

// Graph is a directed graph whose nodes keep their insertion order. An edge
// from A to B reads "A's definition references B".
type Graph[T comparable] struct {
	nodes []T
	index map[T]int
	edges [][]int
	seen  map[[2]int]bool
}

func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		index: make(map[T]int),
		seen:  make(map[[2]int]bool),
	}
}

// AddNode registers n if it is not known yet.
func (g *Graph[T]) AddNode(n T) {
	g.id(n)
}

// AddEdge registers from -> to, adding both nodes. Duplicate edges are
// ignored.
func (g *Graph[T]) AddEdge(from, to T) {
	a, b := g.id(from), g.id(to)
	key := [2]int{a, b}
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	g.edges[a] = append(g.edges[a], b)
}

func (g *Graph[T]) id(n T) int {
	if i, ok := g.index[n]; ok {
		return i
	}
	i := len(g.nodes)
	g.index[n] = i
	g.nodes = append(g.nodes, n)
	g.edges = append(g.edges, nil)
	return i
}

// Nodes returns the nodes in insertion order.
func (g *Graph[T]) Nodes() []T {
	out := make([]T, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges calls fn for every edge, in insertion order of the source node.
func (g *Graph[T]) Edges(fn func(from, to T)) {
	for a, targets := range g.edges {
		for _, b := range targets {
			fn(g.nodes[a], g.nodes[b])
		}
	}
}

// Result is either a linear order consistent with every edge or, when the
// graph has a cycle, the nodes lying on at least one cycle.
type Result[T comparable] struct {
	Order []T
	Cycle []T
}

// HasCycle reports whether the sort failed.
func (r Result[T]) HasCycle() bool {
	return len(r.Cycle) > 0
}

// Sort orders the graph so that every edge's source precedes its target.
// Among ready nodes the one inserted first goes first.
func (g *Graph[T]) Sort() Result[T] {
	n := len(g.nodes)
	indegree := make([]int, n)
	for _, targets := range g.edges {
		for _, b := range targets {
			indegree[b]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]T, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, g.nodes[i])
		for _, b := range g.edges[i] {
			indegree[b]--
			if indegree[b] == 0 {
				queue = append(queue, b)
			}
		}
	}

	if len(order) == n {
		return Result[T]{Order: order}
	}

	remaining := set.New[int](n - len(order))
	for i := 0; i < n; i++ {
		if indegree[i] > 0 {
			remaining.Insert(i)
		}
	}
	onCycle := g.cyclic(remaining)

	var cycle []T
	for i := 0; i < n; i++ {
		if onCycle.Contains(i) {
			cycle = append(cycle, g.nodes[i])
		}
	}
	return Result[T]{Cycle: cycle}
}

// cyclic runs Tarjan's algorithm over the nodes Kahn could not place and
// keeps the members of non-trivial strongly connected components.
func (g *Graph[T]) cyclic(nodes *set.Set[int]) *set.Set[int] {
	result := set.New[int](nodes.Size())
	index := make(map[int]int)
	low := make(map[int]int)
	onStack := set.New[int](nodes.Size())
	var stack []int
	counter := 0

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack.Insert(v)

		selfLoop := false
		for _, w := range g.edges[v] {
			if !nodes.Contains(w) {
				continue
			}
			if w == v {
				selfLoop = true
			}
			if _, visited := index[w]; !visited {
				strongConnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack.Contains(w) {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] == index[v] {
			var component []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack.Remove(w)
				component = append(component, w)
				if w == v {
					break
				}
			}
			if len(component) > 1 || selfLoop {
				for _, w := range component {
					result.Insert(w)
				}
			}
		}
	}

	for v := 0; v < len(g.nodes); v++ {
		if !nodes.Contains(v) {
			continue
		}
		if _, visited := index[v]; !visited {
			strongConnect(v)
		}
	}
	return result
}
