package graph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"

	"raybrowser/internal/api"
	"raybrowser/internal/log"
)

// Graph is the local k-mer graph built from the data near the cursor. Path
// elements arrive with their positions; element details add coverage and
// de Bruijn edges.
type Graph struct {
	g          graph.Graph[string, string]
	positions  map[string][]int
	byPosition map[int][]string
	coverage   map[string]int
}

// New creates an empty graph
func New() *Graph {
	gr := &Graph{}
	gr.Clear()
	return gr
}

// Clear drops every vertex and edge
func (gr *Graph) Clear() {
	gr.g = graph.New(graph.StringHash, graph.Directed())
	gr.positions = make(map[string][]int)
	gr.byPosition = make(map[int][]string)
	gr.coverage = make(map[string]int)
}

// ReverseComplement implements api.GraphRegistrar
func (gr *Graph) ReverseComplement(key string) string {
	return ReverseComplement(key)
}

// RegisterElementAtPosition adds key as a vertex and remembers position.
// Elements registered at adjacent positions whose sequences overlap are
// linked.
func (gr *Graph) RegisterElementAtPosition(key string, position int) {
	gr.addVertex(key)

	positions := gr.positions[key]
	if i, found := slices.BinarySearch(positions, position); !found {
		gr.positions[key] = slices.Insert(positions, i, position)
	}
	if !slices.Contains(gr.byPosition[position], key) {
		gr.byPosition[position] = append(gr.byPosition[position], key)
	}

	for _, previous := range gr.byPosition[position-1] {
		if overlaps(previous, key) {
			gr.addEdge(previous, key)
		}
	}
	for _, next := range gr.byPosition[position+1] {
		if overlaps(key, next) {
			gr.addEdge(key, next)
		}
	}
}

// ReceiveDetail implements api.DetailHandler: every vertex of the reply is
// added with its coverage and its parent and child edges
func (gr *Graph) ReceiveDetail(reply *api.DetailReply) {
	for _, vertex := range reply.Vertices {
		if vertex.Sequence == "" {
			continue
		}
		gr.addVertex(vertex.Sequence)
		gr.coverage[vertex.Sequence] = vertex.Coverage

		for _, parent := range vertex.ParentKeys() {
			gr.addVertex(parent)
			gr.addEdge(parent, vertex.Sequence)
		}
		for _, child := range vertex.ChildKeys() {
			gr.addVertex(child)
			gr.addEdge(vertex.Sequence, child)
		}
	}
	log.Debug("GRAPH: merged detail", "sequence", reply.Sequence, "vertices", len(reply.Vertices))
}

func (gr *Graph) addVertex(key string) {
	if err := gr.g.AddVertex(key); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		log.Warn("GRAPH: failed to add vertex", "key", key, "error", err)
	}
}

func (gr *Graph) addEdge(source, target string) {
	if err := gr.g.AddEdge(source, target); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		log.Warn("GRAPH: failed to add edge", "source", source, "target", target, "error", err)
	}
}

// HasVertex reports whether key is in the graph
func (gr *Graph) HasVertex(key string) bool {
	_, err := gr.g.Vertex(key)
	return err == nil
}

// Positions returns the sorted path positions registered for key
func (gr *Graph) Positions(key string) []int {
	return slices.Clone(gr.positions[key])
}

// Coverage returns the coverage of key if its detail has been received
func (gr *Graph) Coverage(key string) (int, bool) {
	c, ok := gr.coverage[key]
	return c, ok
}

// Order is the number of vertices
func (gr *Graph) Order() int {
	order, err := gr.g.Order()
	if err != nil {
		return 0
	}
	return order
}

// Children returns the sorted successors of key
func (gr *Graph) Children(key string) ([]string, error) {
	adjacency, err := gr.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get adjacency map: %w", err)
	}
	return sortedKeys(adjacency[key]), nil
}

// Parents returns the sorted predecessors of key
func (gr *Graph) Parents(key string) ([]string, error) {
	predecessors, err := gr.g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get predecessor map: %w", err)
	}
	return sortedKeys(predecessors[key]), nil
}

// Neighborhood returns every vertex within radius hops of center, ignoring
// edge direction, together with the edges between them
func (gr *Graph) Neighborhood(center string, radius int) (map[string]int, [][2]string, error) {
	adjacency, err := gr.g.AdjacencyMap()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get adjacency map: %w", err)
	}
	predecessors, err := gr.g.PredecessorMap()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get predecessor map: %w", err)
	}
	if _, ok := adjacency[center]; !ok {
		return nil, nil, fmt.Errorf("vertex %s: %w", center, graph.ErrVertexNotFound)
	}

	levels := map[string]int{center: 0}
	frontier := []string{center}
	for level := 1; level <= radius && len(frontier) > 0; level++ {
		var next []string
		for _, key := range frontier {
			for _, neighbor := range append(sortedKeys(adjacency[key]), sortedKeys(predecessors[key])...) {
				if _, seen := levels[neighbor]; seen {
					continue
				}
				levels[neighbor] = level
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	var edges [][2]string
	for source := range levels {
		for target := range adjacency[source] {
			if _, ok := levels[target]; ok {
				edges = append(edges, [2]string{source, target})
			}
		}
	}
	slices.SortFunc(edges, func(a, b [2]string) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	return levels, edges, nil
}

func sortedKeys(m map[string]graph.Edge[string]) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
