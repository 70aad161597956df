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

// Package stats implements the frontend printing statistics about program graphs.
package stats

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/awslabs/tattler/analysis/program"
	"github.com/awslabs/tattler/cmd/tattler/tools"
	"github.com/awslabs/tattler/internal/formatutil"
	"github.com/awslabs/tattler/internal/graphutil"
	"github.com/yourbasic/graph"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const usage = ` Print statistics about program graphs.
Usage:
  tattler stats <graph file path(s)>
`

// Flags represents the parsed flags for the stats tool.
type Flags struct {
	FlagSet *flag.FlagSet
}

// NewFlags returns the parsed flags for the stats tool with args.
func NewFlags(args []string) (Flags, error) {
	cmd := flag.NewFlagSet("stats", flag.ExitOnError)
	tools.SetUsage(cmd, usage)
	if err := cmd.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command stats with args %v: %v", args, err)
	}
	return Flags{FlagSet: cmd}, nil
}

// Run prints the statistics of every graph file given on the command line
func Run(flags Flags) error {
	files := flags.FlagSet.Args()
	if len(files) == 0 {
		return fmt.Errorf("no graph file specified")
	}
	logger := log.New(os.Stdout, "", log.Flags())
	for _, file := range files {
		g, err := tools.LoadGraph(file)
		if err != nil {
			return err
		}
		printStats(logger, file, g)
	}
	return nil
}

func printStats(logger *log.Logger, file string, g *program.Graph) {
	logger.Printf("%s:", formatutil.Bold(file))
	logger.Printf("  %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	nodeKinds := map[program.NodeKind]int{}
	for _, n := range g.Nodes() {
		nodeKinds[n.Kind]++
	}
	for _, kind := range sorted(maps.Keys(nodeKinds)) {
		logger.Printf("  node kind %-14s %d", kind, nodeKinds[kind])
	}

	edgeKinds := map[program.EdgeKind]int{}
	for _, e := range g.Edges() {
		edgeKinds[e.Kind]++
	}
	for _, kind := range sorted(maps.Keys(edgeKinds)) {
		logger.Printf("  edge kind %-14s %d", kind, edgeKinds[kind])
	}

	if err := g.Validate(); err != nil {
		logger.Printf("  malformed: %v", err)
		return
	}

	pg := graphutil.NewProgramGraphIterator(g)
	components := graph.StrongComponents(pg)
	logger.Printf("  %d strongly connected components", len(components))
	if graph.Acyclic(pg) {
		logger.Printf("  graph is acyclic")
	} else {
		logger.Printf("  graph has cycles")
	}
}

func sorted[T ~string](keys []T) []T {
	slices.Sort(keys)
	return keys
}
