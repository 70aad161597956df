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

// Package rendering renders program graphs as DOT documents and, through graphviz,
// as images. Nodes on a tainted path can be highlighted.
package rendering

import (
	"fmt"
	"io"

	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/program"
	"github.com/awslabs/tattler/internal/graphutil"
	"github.com/goccy/go-graphviz"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
)

// sourceAttrs / sinkAttrs / pathAttrs style the nodes of highlighted paths
var (
	sourceAttrs = []encoding.Attribute{{Key: "color", Value: "green"}, {Key: "style", Value: "filled"}}
	sinkAttrs   = []encoding.Attribute{{Key: "color", Value: "red"}, {Key: "style", Value: "filled"}}
	pathAttrs   = []encoding.Attribute{{Key: "color", Value: "orange"}}
)

// MarshalDOT renders the program graph as a DOT document. Nodes appearing on one of
// the highlight paths are styled: sources green, sinks red, intermediate nodes
// orange.
func MarshalDOT(g *program.Graph, name string, highlight []dataflow.Path) ([]byte, error) {
	sources := map[string]bool{}
	sinks := map[string]bool{}
	onPath := map[string]bool{}
	for _, p := range highlight {
		sources[p.Source()] = true
		sinks[p.Sink()] = true
		for _, id := range p {
			onPath[id] = true
		}
	}

	pg := graphutil.NewProgramGraphIterator(g)
	pg.NodeAttrs = func(index int) []encoding.Attribute {
		id := g.NodeAt(index).ID
		switch {
		case sources[id]:
			return sourceAttrs
		case sinks[id]:
			return sinkAttrs
		case onPath[id]:
			return pathAttrs
		default:
			return nil
		}
	}

	b, err := dot.Marshal(pg, name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal graph to dot: %w", err)
	}
	return b, nil
}

// WriteDOT writes the DOT rendering of the program graph to w
func WriteDOT(w io.Writer, g *program.Graph, name string, highlight []dataflow.Path) error {
	b, err := MarshalDOT(g, name, highlight)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("error while writing in file: %w", err)
	}
	return nil
}

// RenderImage renders the program graph into filename through graphviz. The format
// must be a graphviz output format ("png", "svg", "dot").
func RenderImage(g *program.Graph, highlight []dataflow.Path, format string, filename string) error {
	b, err := MarshalDOT(g, "flowgraph", highlight)
	if err != nil {
		return err
	}
	gv := graphviz.New()
	parsed, err := graphviz.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("could not parse dot rendering: %w", err)
	}
	defer func() {
		parsed.Close()
		gv.Close()
	}()
	if err := gv.RenderFilename(parsed, graphviz.Format(format), filename); err != nil {
		return fmt.Errorf("could not render %s image: %w", format, err)
	}
	return nil
}
