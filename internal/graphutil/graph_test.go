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

package graphutil

import (
	"testing"

	"github.com/awslabs/tattler/analysis/program"
	"github.com/yourbasic/graph"
)

func testGraph() *program.Graph {
	return program.NewGraph(
		[]program.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]program.Edge{
			{From: "a", To: "b", Kind: program.EdgeDirect},
			{From: "b", To: "c", Kind: program.EdgeDirect},
			{From: "c", To: "a", Kind: program.EdgeDirect},
		})
}

func TestIteratorAdjacency(t *testing.T) {
	pg := NewProgramGraphIterator(testGraph())
	if pg.Order() != 3 {
		t.Fatalf("order = %d, want 3", pg.Order())
	}
	var seen []int
	pg.Visit(0, func(w int, c int64) bool {
		seen = append(seen, w)
		return false
	})
	if len(seen) != 1 || seen[0] != 1 {
		t.Errorf("successors of a: %v, want [1]", seen)
	}
	if graph.Acyclic(pg) {
		t.Errorf("the 3-cycle should not be acyclic")
	}
	if comps := graph.StrongComponents(pg); len(comps) != 1 {
		t.Errorf("expected one strongly connected component, got %d", len(comps))
	}
}

func TestGonumInterface(t *testing.T) {
	pg := NewProgramGraphIterator(testGraph())
	ns := pg.Nodes()
	if ns.Len() != 3 {
		t.Fatalf("node set length = %d, want 3", ns.Len())
	}
	var ids []string
	for ns.Next() {
		ids = append(ids, ns.Node().(PNode).DOTID())
	}
	// dense indices follow the identifier ordering of the program graph
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("unexpected node iteration: %v", ids)
	}
	if pg.Edge(0, 1) == nil || pg.Edge(1, 0) != nil {
		t.Errorf("edge direction not respected")
	}
	if !pg.HasEdgeBetween(1, 0) {
		t.Errorf("HasEdgeBetween is undirected")
	}
	if pg.Node(5) != nil {
		t.Errorf("out-of-range node should be nil")
	}
	e := pg.Edge(0, 1)
	r := e.ReversedEdge()
	if r.From().ID() != 1 || r.To().ID() != 0 {
		t.Errorf("reversed edge endpoints wrong")
	}
}
