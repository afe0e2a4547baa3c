package chart

import (
	"errors"

	"github.com/dominikbraun/graph"

	"github.com/tmcke/portview/internal/domain"
)

// Node kinds in the delivery network.
const (
	NodeManager = "manager"
	NodeProject = "project"
)

// Edge kinds.
const (
	EdgeAssignment = "assigned" // manager → project
	EdgePeer       = "peer"     // projects sharing a program
)

// NetNode is a manager or project in the network view.
type NetNode struct {
	ID    string
	Label string
	Kind  string
	Value float64 // project budget; assignment count for managers
}

// NetEdge connects two nodes by ID.
type NetEdge struct {
	Source string
	Target string
	Kind   string
}

// NetworkModel is the manager/project relationship graph. Peer edges
// are all-pairs within a program — O(k²) per program, acceptable since
// program sizes are small in practice.
type NetworkModel struct {
	Nodes []NetNode
	Edges []NetEdge

	// Order and Size are the deduplicated vertex/edge counts from the
	// backing graph.
	Order int
	Size  int
}

// BuildNetwork derives the network model. A directed graph backs the
// build so repeated assignments and peer pairs collapse to one edge.
func BuildNetwork(records []domain.ProjectRecord) NetworkModel {
	g := graph.New(graph.StringHash, graph.Directed())
	m := NetworkModel{}

	nodeIdx := map[string]int{}
	addNode := func(id, label, kind string, value float64) {
		if i, ok := nodeIdx[id]; ok {
			if kind == NodeManager {
				m.Nodes[i].Value += value
			}
			return
		}
		if err := g.AddVertex(id); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return
		}
		nodeIdx[id] = len(m.Nodes)
		m.Nodes = append(m.Nodes, NetNode{ID: id, Label: label, Kind: kind, Value: value})
	}
	addEdge := func(src, dst, kind string) {
		if err := g.AddEdge(src, dst); err != nil {
			// duplicate pair (or self edge): already represented
			return
		}
		m.Edges = append(m.Edges, NetEdge{Source: src, Target: dst, Kind: kind})
	}

	byProgram := map[string][]string{}
	var programOrder []string

	for _, r := range records {
		projectID := NodeProject + ":" + r.Name
		managerID := NodeManager + ":" + r.Manager
		addNode(projectID, r.Name, NodeProject, r.Budget)
		addNode(managerID, r.Manager, NodeManager, 1)
		addEdge(managerID, projectID, EdgeAssignment)

		if _, ok := byProgram[r.Program]; !ok {
			programOrder = append(programOrder, r.Program)
		}
		byProgram[r.Program] = append(byProgram[r.Program], projectID)
	}

	// all-pairs peer edges within each program, not a chain
	for _, prog := range programOrder {
		ids := byProgram[prog]
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if ids[i] == ids[j] {
					continue
				}
				addEdge(ids[i], ids[j], EdgePeer)
			}
		}
	}

	m.Order, _ = g.Order()
	m.Size, _ = g.Size()
	return m
}
