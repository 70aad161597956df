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

// Package render implements the frontend rendering program graphs as DOT or images.
package render

import (
	"context"
	"fmt"
	"os"

	"github.com/awslabs/tattler/analysis"
	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/rendering"
	"github.com/awslabs/tattler/cmd/tattler/tools"
)

const usage = ` Render a program graph as DOT or as an image. When a config file is given, the
 taint tracking problems are run first and the discovered paths are highlighted.
Usage:
  tattler render [options] <graph file path>
Examples:
  % tattler render -format png -o graph.png graph.json
  % tattler render -config config.yaml -o graph.dot graph.json
`

// Flags represents the parsed flags for the render tool.
type Flags struct {
	tools.CommonFlags
	format string
	out    string
}

// NewFlags returns the parsed flags for the render tool with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("render")
	format := flags.FlagSet.String("format", "dot", "output format: dot, png or svg")
	out := flags.FlagSet.String("o", "", "output file (default: stdout, dot only)")
	tools.SetUsage(flags.FlagSet, usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command render with args %v: %v", args, err)
	}
	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
		},
		format: *format,
		out:    *out,
	}, nil
}

// Run renders the graph file given on the command line
func Run(flags Flags) error {
	files := flags.FlagSet.Args()
	if len(files) != 1 {
		return fmt.Errorf("expected exactly one graph file")
	}
	g, err := tools.LoadGraph(files[0])
	if err != nil {
		return err
	}

	var highlight []dataflow.Path
	if flags.ConfigPath != "" {
		cfg, err := tools.LoadConfig(flags.ConfigPath)
		if err != nil {
			return err
		}
		state := dataflow.NewAnalyzerState(g, cfg)
		for _, r := range analysis.RunProblems(context.Background(), state) {
			if r.Err != nil {
				return fmt.Errorf("problem %s failed: %w", r.Problem, r.Err)
			}
			highlight = append(highlight, r.Report.Paths...)
		}
	}

	switch flags.format {
	case "dot":
		w := os.Stdout
		if flags.out != "" {
			f, err := os.Create(flags.out)
			if err != nil {
				return fmt.Errorf("could not create output file: %v", err)
			}
			defer f.Close()
			w = f
		}
		return rendering.WriteDOT(w, g, "flowgraph", highlight)
	case "png", "svg":
		if flags.out == "" {
			return fmt.Errorf("image rendering requires -o")
		}
		return rendering.RenderImage(g, highlight, flags.format, flags.out)
	default:
		return fmt.Errorf("unknown format %q", flags.format)
	}
}
