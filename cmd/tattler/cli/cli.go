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

// Package cli implements an interactive terminal-like interface to explore a program
// graph and the results of its taint tracking problems.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/awslabs/tattler/analysis"
	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/taint"
	"github.com/awslabs/tattler/cmd/tattler/tools"
	"github.com/awslabs/tattler/internal/formatutil"
	"github.com/awslabs/tattler/internal/funcutil"
	"golang.org/x/term"
)

// Usage for the cli tool
const Usage = ` Explore a program graph and its taint tracking problems interactively.
Usage:
  tattler cli -config config.yaml <graph file path>
`

const commands = `Commands:
  problems            list the taint tracking problems of the config
  run [problem]       run one problem (or all) and print the paths
  node <id>           show a node
  succs <id>          show the static successors of a node
  stats               print graph statistics
  help                print this message
  exit                quit`

// Run starts the interactive loop. It requires a config and exactly one graph file.
func Run(flags tools.CommonFlags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	files := flags.FlagSet.Args()
	if len(files) != 1 {
		return fmt.Errorf("expected exactly one graph file")
	}
	g, err := tools.LoadGraph(files[0])
	if err != nil {
		return err
	}
	state := dataflow.NewAnalyzerState(g, cfg)

	fmt.Printf("%s\n", formatutil.Faint("Tattler cli - "+analysis.Version))
	fmt.Printf("Loaded %s: %d nodes, %d edges\n", files[0], g.NumNodes(), g.NumEdges())
	fmt.Println(commands)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt(files[0])
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Println(commands)
		case "problems":
			for i, spec := range cfg.TaintProblems {
				fmt.Printf("  [%d] %s\n", i, taint.NewProblemConfiguration(i, spec).Name())
			}
		case "run":
			runProblems(state, args)
		case "node":
			showNode(state, args)
		case "succs":
			showSuccs(state, args)
		case "stats":
			fmt.Printf("%d nodes, %d edges\n", g.NumNodes(), g.NumEdges())
		default:
			fmt.Printf("unknown command %q (try help)\n", cmd)
		}
	}
}

func prompt(file string) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Printf("%s > ", formatutil.Cyan(file))
	}
}

func runProblems(state *dataflow.AnalyzerState, args []string) {
	if len(args) > 0 && state.Config.ProblemByName(args[0]).IsNone() {
		fmt.Printf("no problem %q (try problems)\n", args[0])
		return
	}
	results := analysis.RunProblems(context.Background(), state)
	for _, r := range results {
		if len(args) > 0 && r.Problem != args[0] {
			continue
		}
		fmt.Printf("%s: %s\n", r.Problem, r.Status())
		if r.Err != nil {
			fmt.Printf("  %s\n", formatutil.Red(r.Err.Error()))
			continue
		}
		for _, p := range r.Report.Paths {
			fmt.Printf("  %s\n", p)
		}
		for _, perr := range r.PredicateErrors {
			fmt.Printf("  %s\n", formatutil.Yellow(perr.Error()))
		}
	}
}

func showNode(state *dataflow.AnalyzerState, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: node <id>")
		return
	}
	n, ok := state.Graph.NodeByID(args[0])
	if !ok {
		fmt.Printf("no node %q\n", args[0])
		return
	}
	fmt.Printf("  %s\n", formatutil.SanitizeRepr(n))
	if n.Type != "" {
		fmt.Printf("  type: %s\n", n.Type)
	}
	if n.Pos.IsValid() {
		fmt.Printf("  at: %s\n", n.Pos)
	}
}

func showSuccs(state *dataflow.AnalyzerState, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: succs <id>")
		return
	}
	g := state.Graph
	i := g.Index(args[0])
	if i < 0 {
		fmt.Printf("no node %q\n", args[0])
		return
	}
	funcutil.Iter(g.Out(i), func(k int) {
		fmt.Printf("  %s\n", g.EdgeAt(k))
	})
}
