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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/tattler/analysis"
	"github.com/awslabs/tattler/cmd/tattler/cli"
	"github.com/awslabs/tattler/cmd/tattler/render"
	"github.com/awslabs/tattler/cmd/tattler/stats"
	"github.com/awslabs/tattler/cmd/tattler/taint"
	"github.com/awslabs/tattler/cmd/tattler/tools"
)

const usage = `Tattler: taint tracking over program graphs
Usage:
  tattler [tool] [options] <graph file path(s)>
Tools:
  - taint: runs the taint tracking problems of a configuration over program graphs
  - cli: interactive terminal-like interface to explore a graph and its analyses
  - render: renders a graph representation of a program graph, with tainted paths highlighted
  - stats: prints statistics about a program graph
Examples:
  Run the taint analysis: tattler taint --config=config.yaml graph.json
  Run the interactive CLI: tattler cli --config=config.yaml graph.json`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "version" || snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "taint":
		flags, err := taint.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := taint.Run(flags); err != nil {
			errExit(err)
		}
	case "cli":
		flags, err := tools.NewCommonFlags("cli", args, cli.Usage)
		if err != nil {
			errExit(err)
		}
		if err := cli.Run(flags); err != nil {
			errExit(err)
		}
	case "render":
		flags, err := render.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := render.Run(flags); err != nil {
			errExit(err)
		}
	case "stats":
		flags, err := stats.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := stats.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(2)
}
