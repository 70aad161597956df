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

// Package program defines the immutable program-graph representation consumed by the
// analyses. A Graph is built once from the nodes and edges supplied by an external
// front end and is never mutated afterwards; every analysis runs over the same value.
package program

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
)

// NodeKind is the syntactic kind of a program point.
type NodeKind string

const (
	// KindExpression is a plain expression value
	KindExpression NodeKind = "expression"
	// KindParameter is a function or method parameter
	KindParameter NodeKind = "parameter"
	// KindReturn is a return value of a procedure
	KindReturn NodeKind = "return"
	// KindField is a field access
	KindField NodeKind = "field"
	// KindArrayElement is an array or slice element access
	KindArrayElement NodeKind = "array-element"
	// KindCall is a call site
	KindCall NodeKind = "call"
)

// EdgeKind is the kind of a directed flow relation between two nodes.
type EdgeKind string

const (
	// EdgeDirect is a direct def-use edge
	EdgeDirect EdgeKind = "direct"
	// EdgeCallArg is an edge from an argument to the corresponding parameter
	EdgeCallArg EdgeKind = "call-arg"
	// EdgeCallReturn is an edge from a return value to the call site value
	EdgeCallReturn EdgeKind = "call-return"
	// EdgeContentStore is a write into container content (field, array element, map key)
	EdgeContentStore EdgeKind = "content-store"
	// EdgeContentLoad is a read out of container content
	EdgeContentLoad EdgeKind = "content-load"
	// EdgeAdditionalStep never appears in an input graph; the flow graph builder
	// synthesizes those edges from a configuration's additional-step predicate
	EdgeAdditionalStep EdgeKind = "additional-step"
)

// A ContentLabel describes which container content a store or load edge accesses.
// Kind distinguishes the container species ("field", "array", "map-key", ...) and Name
// identifies the element when the species has named elements (field names). An empty
// label means the edge moves the value itself, not content.
type ContentLabel struct {
	Kind string `json:"kind,omitempty" xml:"kind,attr" yaml:"kind" msgpack:"kind"`
	Name string `json:"name,omitempty" xml:"name,attr" yaml:"name" msgpack:"name"`
}

// IsEmpty returns true when the label carries no content information
func (l ContentLabel) IsEmpty() bool {
	return l.Kind == "" && l.Name == ""
}

func (l ContentLabel) String() string {
	if l.IsEmpty() {
		return "∅"
	}
	if l.Name == "" {
		return l.Kind
	}
	return l.Kind + "." + l.Name
}

// A Position is an optional source position carried by a node, used only for display
// in reports. The zero value means "no position known".
type Position struct {
	Filename string `json:"file,omitempty" msgpack:"file"`
	Line     int    `json:"line,omitempty" msgpack:"line"`
	Column   int    `json:"col,omitempty" msgpack:"col"`
}

// IsValid returns true when the position has at least a file name
func (p Position) IsValid() bool { return p.Filename != "" }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// A Node is a program point. Nodes are identified by their ID, which must be unique
// within a graph. Nodes are plain values and never mutated after graph construction.
type Node struct {
	// ID is the unique identifier of the node within its graph
	ID string `json:"id" msgpack:"id"`

	// Kind is the syntactic kind of the program point
	Kind NodeKind `json:"kind" msgpack:"kind"`

	// Type is the declared type tag of the node, a free-form string assigned by the
	// front end (e.g. "javax.net.ssl.X509TrustManager")
	Type string `json:"type,omitempty" msgpack:"type"`

	// Proc is the identifier of the enclosing procedure
	Proc string `json:"proc,omitempty" msgpack:"proc"`

	// Pos is the optional source position of the node
	Pos Position `json:"pos,omitempty" msgpack:"pos"`
}

func (n Node) String() string {
	return fmt.Sprintf("%s (%s in %s)", n.ID, n.Kind, n.Proc)
}

// An Edge is a directed flow relation between two nodes, referenced by their IDs.
// Store and load edges carry a content label; the label of every other edge kind is
// empty. Edges are never mutated after graph construction.
type Edge struct {
	From  string       `json:"from" msgpack:"from"`
	To    string       `json:"to" msgpack:"to"`
	Kind  EdgeKind     `json:"kind" msgpack:"kind"`
	Label ContentLabel `json:"label,omitempty" msgpack:"label"`
}

func (e Edge) String() string {
	if e.Label.IsEmpty() {
		return fmt.Sprintf("%s -[%s]-> %s", e.From, e.Kind, e.To)
	}
	return fmt.Sprintf("%s -[%s %s]-> %s", e.From, e.Kind, e.Label, e.To)
}

// A Graph is the whole program graph: a set of nodes and the static edges between
// them. The graph is immutable once constructed. Nodes are kept sorted by ID and
// edges by (From, To, Kind, Label) so that analyses see the same iteration order
// regardless of the order the front end produced them in.
type Graph struct {
	nodes []Node
	edges []Edge

	// index maps node IDs to their position in nodes. When the input contains
	// duplicate IDs the first occurrence wins and Validate reports the defect.
	index map[string]int

	// succs[i] lists the indices into edges of all edges leaving node i. Edges whose
	// endpoints do not resolve are left out; Validate reports them.
	succs [][]int

	validateOnce sync.Once
	validateErr  error
}

// NewGraph builds a graph from the given nodes and edges. The inputs are copied, so
// the caller may reuse its slices. Construction never fails: structural defects
// (duplicate IDs, dangling edge endpoints) are detected by Validate, which the
// analyses call before traversing.
func NewGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes: slices.Clone(nodes),
		edges: slices.Clone(edges),
		index: make(map[string]int, len(nodes)),
	}
	slices.SortStableFunc(g.nodes, func(a, b Node) bool { return a.ID < b.ID })
	slices.SortStableFunc(g.edges, func(a, b Edge) bool { return compareEdges(a, b) < 0 })

	for i, n := range g.nodes {
		if _, seen := g.index[n.ID]; !seen {
			g.index[n.ID] = i
		}
	}

	g.succs = make([][]int, len(g.nodes))
	for k, e := range g.edges {
		from, okFrom := g.index[e.From]
		_, okTo := g.index[e.To]
		if okFrom && okTo {
			g.succs[from] = append(g.succs[from], k)
		}
	}
	return g
}

func compareEdges(a, b Edge) int {
	if a.From != b.From {
		return compareStrings(a.From, b.From)
	}
	if a.To != b.To {
		return compareStrings(a.To, b.To)
	}
	if a.Kind != b.Kind {
		return compareStrings(string(a.Kind), string(b.Kind))
	}
	if a.Label.Kind != b.Label.Kind {
		return compareStrings(a.Label.Kind, b.Label.Kind)
	}
	return compareStrings(a.Label.Name, b.Label.Name)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NumNodes returns the number of nodes in the graph
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of static edges in the graph
func (g *Graph) NumEdges() int { return len(g.edges) }

// NodeAt returns the node at index i. Node indices are dense in [0, NumNodes()) and
// assigned in ID order.
func (g *Graph) NodeAt(i int) Node { return g.nodes[i] }

// EdgeAt returns the edge at index k
func (g *Graph) EdgeAt(k int) Edge { return g.edges[k] }

// NodeByID returns the node with the given ID and true, or the zero node and false
// when no such node exists
func (g *Graph) NodeByID(id string) (Node, bool) {
	if i, ok := g.index[id]; ok {
		return g.nodes[i], true
	}
	return Node{}, false
}

// Index returns the dense index of the node with the given ID, or -1 when no such
// node exists
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Out returns the indices of the edges leaving node i. The returned slice is owned
// by the graph and must not be modified.
func (g *Graph) Out(i int) []int { return g.succs[i] }

// Nodes returns the nodes of the graph in ID order. The returned slice is owned by
// the graph and must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the static edges of the graph in sorted order. The returned slice is
// owned by the graph and must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Validate checks the structural integrity of the graph: every node ID is unique and
// every edge endpoint resolves to a node. The result is computed once and memoized,
// since the graph is immutable.
func (g *Graph) Validate() error {
	g.validateOnce.Do(func() { g.validateErr = g.validate() })
	return g.validateErr
}

func (g *Graph) validate() error {
	for i := 1; i < len(g.nodes); i++ {
		if g.nodes[i].ID == g.nodes[i-1].ID {
			return fmt.Errorf("duplicate node identifier %q", g.nodes[i].ID)
		}
	}
	for _, e := range g.edges {
		if _, ok := g.index[e.From]; !ok {
			return fmt.Errorf("edge %s references nonexistent node %q", e, e.From)
		}
		if _, ok := g.index[e.To]; !ok {
			return fmt.Errorf("edge %s references nonexistent node %q", e, e.To)
		}
	}
	return nil
}
