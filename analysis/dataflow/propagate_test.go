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

package dataflow

import (
	"context"
	"testing"

	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/program"
	"golang.org/x/exp/slices"
)

// funcConfig is a map-backed Configuration for tests
type funcConfig struct {
	BaseConfiguration
	name     string
	sources  map[string]bool
	sinks    map[string]bool
	barriers map[string]bool
	steps    map[[2]string]bool
	implicit func(n program.Node, label program.ContentLabel) bool
}

func (c *funcConfig) Name() string                   { return c.name }
func (c *funcConfig) IsSource(n program.Node) bool   { return c.sources[n.ID] }
func (c *funcConfig) IsSink(n program.Node) bool     { return c.sinks[n.ID] }
func (c *funcConfig) IsBarrier(n program.Node) bool  { return c.barriers[n.ID] }
func (c *funcConfig) IsAdditionalFlowStep(n1 program.Node, n2 program.Node) bool {
	return c.steps[[2]string{n1.ID, n2.ID}]
}
func (c *funcConfig) AllowImplicitRead(n program.Node, label program.ContentLabel) bool {
	return c.implicit != nil && c.implicit(n, label)
}

func ids(s ...string) map[string]bool {
	m := map[string]bool{}
	for _, x := range s {
		m[x] = true
	}
	return m
}

func nodes(s ...string) []program.Node {
	var ns []program.Node
	for _, x := range s {
		ns = append(ns, program.Node{ID: x, Kind: program.KindExpression})
	}
	return ns
}

func newState(nodes []program.Node, edges []program.Edge) *AnalyzerState {
	cfg := config.NewDefault()
	cfg.SilenceWarn = true
	return NewAnalyzerState(program.NewGraph(nodes, edges), cfg)
}

// run builds the flow graph, propagates, and sorts the resulting paths
func run(t *testing.T, s *AnalyzerState, fc *funcConfig) []Path {
	t.Helper()
	reg := NewRegistry(s.Graph, fc, s.Logger)
	fg, err := BuildFlowGraph(s, reg)
	if err != nil {
		t.Fatalf("building flow graph: %v", err)
	}
	paths, err := Propagate(context.Background(), fg, reg)
	if err != nil {
		t.Fatalf("propagating: %v", err)
	}
	slices.SortFunc(paths, func(p, q Path) bool { return ComparePaths(p, q) < 0 })
	return paths
}

func checkPaths(t *testing.T, got []Path, want []Path) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d paths, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if ComparePaths(got[i], want[i]) != 0 {
			t.Errorf("path %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPropagateLinear(t *testing.T) {
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "q", To: "r", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{name: "linear", sources: ids("p"), sinks: ids("r")}
	checkPaths(t, run(t, s, fc), []Path{{"p", "q", "r"}})
}

func TestPropagateBarrierBlocks(t *testing.T) {
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "q", To: "r", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{name: "barrier", sources: ids("p"), sinks: ids("r"), barriers: ids("q")}
	checkPaths(t, run(t, s, fc), nil)
}

func TestPropagateBarrierSourceAndSink(t *testing.T) {
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "q", To: "r", Kind: program.EdgeDirect},
	})
	// a source that is also a barrier is never seeded
	fc := &funcConfig{name: "bsource", sources: ids("p"), sinks: ids("r"), barriers: ids("p")}
	checkPaths(t, run(t, s, fc), nil)
	// a sink that is also a barrier is never entered
	fc = &funcConfig{name: "bsink", sources: ids("p"), sinks: ids("r"), barriers: ids("r")}
	checkPaths(t, run(t, s, fc), nil)
}

func TestPropagateAdditionalStep(t *testing.T) {
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "q", To: "r", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{
		name:    "step",
		sources: ids("p"),
		sinks:   ids("r"),
		steps:   map[[2]string]bool{{"p", "r"}: true},
	}
	// the direct step and the longer static route are distinct paths
	checkPaths(t, run(t, s, fc), []Path{{"p", "r"}, {"p", "q", "r"}})
}

func TestPropagateSourceIsSink(t *testing.T) {
	s := newState(nodes("p", "q"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{name: "zero", sources: ids("p"), sinks: ids("p")}
	checkPaths(t, run(t, s, fc), []Path{{"p"}})
}

func TestPropagateSinkAbsorbs(t *testing.T) {
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "q", To: "r", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{name: "absorb", sources: ids("p"), sinks: ids("q", "r")}
	checkPaths(t, run(t, s, fc), []Path{{"p", "q"}})
}

func TestPropagateContentMatch(t *testing.T) {
	x := program.ContentLabel{Kind: "field", Name: "x"}
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeContentStore, Label: x},
		{From: "q", To: "r", Kind: program.EdgeContentLoad, Label: x},
	})
	fc := &funcConfig{name: "content", sources: ids("p"), sinks: ids("r")}
	checkPaths(t, run(t, s, fc), []Path{{"p", "q", "r"}})
}

func TestPropagateContentMismatchBlocks(t *testing.T) {
	x := program.ContentLabel{Kind: "field", Name: "x"}
	y := program.ContentLabel{Kind: "field", Name: "y"}
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeContentStore, Label: x},
		{From: "q", To: "r", Kind: program.EdgeContentLoad, Label: y},
	})
	fc := &funcConfig{name: "mismatch", sources: ids("p"), sinks: ids("r")}
	checkPaths(t, run(t, s, fc), nil)
}

func TestPropagateSinkRequiresEmptyAccess(t *testing.T) {
	x := program.ContentLabel{Kind: "field", Name: "x"}
	s := newState(nodes("p", "q"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeContentStore, Label: x},
	})
	// the taint reaching q sits behind an unmatched store, so q is not a sink hit
	fc := &funcConfig{name: "pending", sources: ids("p"), sinks: ids("q")}
	checkPaths(t, run(t, s, fc), nil)
}

func TestPropagateImplicitRead(t *testing.T) {
	arr := program.ContentLabel{Kind: "array"}
	edges := []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeContentLoad, Label: arr},
	}
	allow := &funcConfig{
		name: "implicit", sources: ids("p"), sinks: ids("q"),
		implicit: func(n program.Node, label program.ContentLabel) bool {
			return n.ID == "q" && label.Kind == "array"
		},
	}
	checkPaths(t, run(t, newState(nodes("p", "q"), edges), allow), []Path{{"p", "q"}})

	deny := &funcConfig{name: "implicit-deny", sources: ids("p"), sinks: ids("q")}
	checkPaths(t, run(t, newState(nodes("p", "q"), edges), deny), nil)
}

func TestPropagateAccessDepthSaturates(t *testing.T) {
	a := program.ContentLabel{Kind: "field", Name: "a"}
	b := program.ContentLabel{Kind: "field", Name: "b"}
	s := newState(nodes("p", "q", "r", "s"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeContentStore, Label: a},
		{From: "q", To: "r", Kind: program.EdgeContentStore, Label: b},
		{From: "r", To: "s", Kind: program.EdgeContentLoad, Label: a},
	})
	s.Config.MaxAccessDepth = 1
	// the second store saturates instead of growing the state, so the load of a
	// still empties it at the sink
	fc := &funcConfig{name: "saturate", sources: ids("p"), sinks: ids("s")}
	checkPaths(t, run(t, s, fc), []Path{{"p", "q", "r", "s"}})
}

func TestPropagateCycleTerminates(t *testing.T) {
	s := newState(nodes("p", "q", "r"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "q", To: "p", Kind: program.EdgeDirect},
		{From: "q", To: "r", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{name: "cycle", sources: ids("p"), sinks: ids("r")}
	checkPaths(t, run(t, s, fc), []Path{{"p", "q", "r"}})
}

func TestPropagateMaxAlarms(t *testing.T) {
	s := newState(nodes("a", "b", "m", "z"), []program.Edge{
		{From: "a", To: "m", Kind: program.EdgeDirect},
		{From: "b", To: "m", Kind: program.EdgeDirect},
		{From: "m", To: "z", Kind: program.EdgeDirect},
	})
	s.Config.MaxAlarms = 1
	fc := &funcConfig{name: "capped", sources: ids("a", "b"), sinks: ids("z")}
	if got := run(t, s, fc); len(got) != 1 {
		t.Errorf("expected the alarm cap to hold, got %d paths", len(got))
	}
}

func TestPropagateIsDeterministic(t *testing.T) {
	edges := []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
		{From: "p", To: "r", Kind: program.EdgeDirect},
		{From: "q", To: "z", Kind: program.EdgeDirect},
		{From: "r", To: "z", Kind: program.EdgeDirect},
	}
	fc := &funcConfig{name: "det", sources: ids("p"), sinks: ids("z")}
	first := run(t, newState(nodes("p", "q", "r", "z"), edges), fc)
	// reversed input order must not change the output
	rev := []program.Edge{edges[3], edges[2], edges[1], edges[0]}
	second := run(t, newState(nodes("z", "r", "q", "p"), rev), fc)
	checkPaths(t, second, first)
}

func TestPropagateCancellation(t *testing.T) {
	s := newState(nodes("p", "q"), []program.Edge{
		{From: "p", To: "q", Kind: program.EdgeDirect},
	})
	fc := &funcConfig{name: "cancelled", sources: ids("p"), sinks: ids("q")}
	reg := NewRegistry(s.Graph, fc, s.Logger)
	fg, err := BuildFlowGraph(s, reg)
	if err != nil {
		t.Fatalf("building flow graph: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Propagate(ctx, fg, reg); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
