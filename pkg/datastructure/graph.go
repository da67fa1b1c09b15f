package datastructure

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNode    = errors.New("edge endpoint is not a node of the graph")
	ErrNegativeLength = errors.New("edge length must be non-negative")
)

// Node is a street junction or way vertex. ID is the upstream (OSM) identifier.
type Node struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EdgePair is a directed out edge stored in the adjacency list of its tail node.
// Dist is the physical length in meters.
type EdgePair struct {
	ToNodeIDX int32
	Dist      float64
}

// Edge is the flat form of a directed edge, used when copying graphs around.
type Edge struct {
	FromID int64
	ToID   int64
	Length float64
}

// Graph is a directed street network. Nodes are addressed by a dense int32 index
// internally; NodeIndex maps the upstream id back to that index.
type Graph struct {
	nodes    []Node
	outEdges [][]EdgePair
	nodeIdx  map[int64]int32
	numEdges int
}

func NewGraph() *Graph {
	return &Graph{
		nodes:    make([]Node, 0),
		outEdges: make([][]EdgePair, 0),
		nodeIdx:  make(map[int64]int32),
	}
}

// AddNode inserts a node and returns its index. Adding an id twice returns the
// existing index and keeps the first position.
func (g *Graph) AddNode(id int64, lat, lon float64) int32 {
	if idx, ok := g.nodeIdx[id]; ok {
		return idx
	}
	idx := int32(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Lat: lat, Lon: lon})
	g.outEdges = append(g.outEdges, nil)
	g.nodeIdx[id] = idx
	return idx
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(fromID, toID int64, length float64) error {
	if length < 0 {
		return fmt.Errorf("edge %d->%d: %w", fromID, toID, ErrNegativeLength)
	}
	from, ok := g.nodeIdx[fromID]
	if !ok {
		return fmt.Errorf("edge %d->%d: node %d: %w", fromID, toID, fromID, ErrUnknownNode)
	}
	to, ok := g.nodeIdx[toID]
	if !ok {
		return fmt.Errorf("edge %d->%d: node %d: %w", fromID, toID, toID, ErrUnknownNode)
	}
	g.outEdges[from] = append(g.outEdges[from], EdgePair{ToNodeIDX: to, Dist: length})
	g.numEdges++
	return nil
}

// AddStreet adds a street segment. Unless oneway, it is stored as two directed edges.
func (g *Graph) AddStreet(aID, bID int64, length float64, oneway bool) error {
	if err := g.AddEdge(aID, bID, length); err != nil {
		return err
	}
	if oneway {
		return nil
	}
	return g.AddEdge(bID, aID, length)
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return g.numEdges
}

func (g *Graph) GetNode(idx int32) Node {
	return g.nodes[idx]
}

func (g *Graph) GetOutEdges(idx int32) []EdgePair {
	return g.outEdges[idx]
}

func (g *Graph) NodeIndex(id int64) (int32, bool) {
	idx, ok := g.nodeIdx[id]
	return idx, ok
}

// Nodes returns the node slice in index order. Callers must not modify it.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges flattens the adjacency lists in node index order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.numEdges)
	for from, out := range g.outEdges {
		for _, e := range out {
			edges = append(edges, Edge{
				FromID: g.nodes[from].ID,
				ToID:   g.nodes[e.ToNodeIDX].ID,
				Length: e.Dist,
			})
		}
	}
	return edges
}
