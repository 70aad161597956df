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
	"errors"
	"fmt"

	"github.com/awslabs/tattler/analysis/program"
)

// ErrMalformedGraph is returned when the program graph has a structural defect
// (dangling edge endpoint or duplicate node identifier). The defect is fatal to the
// configuration run it was detected in, and only to that run.
var ErrMalformedGraph = errors.New("malformed program graph")

// A FlowEdge is one traversable edge of a flow graph, pointing at the dense index of
// its destination node
type FlowEdge struct {
	To    int
	Kind  program.EdgeKind
	Label program.ContentLabel
}

// A FlowGraph is the directed multigraph one configuration's propagation traverses:
// the static edges of the program graph merged with the additional flow steps
// synthesized from the configuration. Flow graphs are per configuration; two
// configurations never share one.
type FlowGraph struct {
	// State is the analyzer state the graph was built from
	State *AnalyzerState

	// Registry is the predicate registry of the configuration the graph was built for
	Registry *Registry

	succs [][]FlowEdge
}

// BuildFlowGraph builds the flow graph for the configuration wrapped by reg. The
// program graph is validated first; a structural defect aborts the build with an
// error wrapping ErrMalformedGraph. Additional flow steps are synthesized by
// evaluating the configuration's step predicate on every ordered node pair.
func BuildFlowGraph(state *AnalyzerState, reg *Registry) (*FlowGraph, error) {
	g := state.Graph
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}

	n := g.NumNodes()
	fg := &FlowGraph{
		State:    state,
		Registry: reg,
		succs:    make([][]FlowEdge, n),
	}

	for i := 0; i < n; i++ {
		for _, k := range g.Out(i) {
			e := g.EdgeAt(k)
			fg.succs[i] = append(fg.succs[i], FlowEdge{
				To:    g.Index(e.To),
				Kind:  e.Kind,
				Label: e.Label,
			})
		}
	}

	steps := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if reg.IsAdditionalFlowStep(i, j) {
				fg.succs[i] = append(fg.succs[i], FlowEdge{To: j, Kind: program.EdgeAdditionalStep})
				steps++
			}
		}
	}
	state.Logger.Debugf("%s: flow graph has %d nodes, %d static edges, %d additional steps",
		reg.Name(), n, g.NumEdges(), steps)

	return fg, nil
}

// Succs returns the flow edges leaving the node at index i. The returned slice is
// owned by the graph and must not be modified.
func (fg *FlowGraph) Succs(i int) []FlowEdge {
	return fg.succs[i]
}

// NumNodes returns the number of nodes in the flow graph
func (fg *FlowGraph) NumNodes() int {
	return len(fg.succs)
}
