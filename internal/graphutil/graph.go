// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphutil adapts program graphs to the interfaces of the external graph
// libraries: Gonum's graph.Graph (for DOT rendering) and yourbasic/graph's Iterator
// (for statistics such as strongly connected components and acyclicity).
package graphutil

import (
	"github.com/awslabs/tattler/analysis/program"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
)

// A PGraph is an abstraction over a program graph to work with existing graph
// libraries. Node IDs are the dense indices the program graph assigns, so results
// from either library map back to nodes directly.
type PGraph struct {
	// The original program graph the PGraph was constructed from
	Graph *program.Graph

	// NodeAttrs, when set, supplies the DOT attributes of each node (by dense
	// index) for rendering
	NodeAttrs func(index int) []encoding.Attribute

	// adjacency over dense indices; parallel edges are collapsed
	succs []map[int]bool
}

// NewProgramGraphIterator returns an adapter over g
func NewProgramGraphIterator(g *program.Graph) *PGraph {
	n := g.NumNodes()
	succs := make([]map[int]bool, n)
	for i := 0; i < n; i++ {
		succs[i] = map[int]bool{}
		for _, k := range g.Out(i) {
			succs[i][g.Index(g.EdgeAt(k).To)] = true
		}
	}
	return &PGraph{Graph: g, succs: succs}
}

// Order implements the yourbasic graph.Iterator interface
func (p *PGraph) Order() int {
	return p.Graph.NumNodes()
}

// Visit implements the yourbasic graph.Iterator interface
func (p *PGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(p.succs) {
		return false
	}
	for w := range p.succs[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// *************** Gonum Graph interface implementation **********************

// Node implements the Gonum graph.Graph interface
func (p *PGraph) Node(id int64) graph.Node {
	if id < 0 || id >= int64(p.Graph.NumNodes()) {
		return nil
	}
	return PNode{owner: p, index: int(id)}
}

// Nodes returns the set of nodes in the graph
func (p *PGraph) Nodes() graph.Nodes {
	ids := make([]int, p.Graph.NumNodes())
	for i := range ids {
		ids[i] = i
	}
	return &NodeSet{owner: p, ids: ids, cur: -1}
}

// From returns the set of nodes reachable from the id in one edge
func (p *PGraph) From(id int64) graph.Nodes {
	var ids []int
	if id >= 0 && id < int64(len(p.succs)) {
		for w := range p.succs[id] {
			ids = append(ids, w)
		}
	}
	return &NodeSet{owner: p, ids: ids, cur: -1}
}

// HasEdgeBetween returns true when an edge exists between the two node ids,
// regardless of direction
func (p *PGraph) HasEdgeBetween(xid, yid int64) bool {
	return p.hasEdge(xid, yid) || p.hasEdge(yid, xid)
}

// Edge returns the edge between the two ids (nil if none exists)
func (p *PGraph) Edge(uid, vid int64) graph.Edge {
	if !p.hasEdge(uid, vid) {
		return nil
	}
	return PEdge{
		from: PNode{owner: p, index: int(uid)},
		to:   PNode{owner: p, index: int(vid)},
	}
}

func (p *PGraph) hasEdge(uid, vid int64) bool {
	if uid < 0 || uid >= int64(len(p.succs)) {
		return false
	}
	return p.succs[uid][int(vid)]
}

// *************** Nodes implementation **********************

// A PNode wraps one program node to implement the Gonum graph.Node interface
type PNode struct {
	owner *PGraph
	index int
}

// ID returns the dense index of the node
func (n PNode) ID() int64 { return int64(n.index) }

// DOTID returns the program node identifier, used as the node name in DOT output
func (n PNode) DOTID() string { return n.owner.Graph.NodeAt(n.index).ID }

// Attributes implements the encoding.Attributer interface for DOT rendering
func (n PNode) Attributes() []encoding.Attribute {
	if n.owner.NodeAttrs == nil {
		return nil
	}
	return n.owner.NodeAttrs(n.index)
}

func (n PNode) String() string { return n.owner.Graph.NodeAt(n.index).String() }

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	owner *PGraph
	ids   []int
	cur   int
}

// Next moves the iterator to the next node and returns true if one exists
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of remaining nodes
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset rewinds the iterator
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return PNode{owner: ns.owner, index: ns.ids[ns.cur]}
}

// *************** Edge implementation **********************

// PEdge implements the Gonum graph.Edge interface
type PEdge struct {
	from PNode
	to   PNode
}

// From returns the origin of the edge
func (e PEdge) From() graph.Node { return e.from }

// To returns the destination of the edge
func (e PEdge) To() graph.Node { return e.to }

// ReversedEdge returns a new value representing the reversed edge
func (e PEdge) ReversedEdge() graph.Edge { return PEdge{from: e.to, to: e.from} }
