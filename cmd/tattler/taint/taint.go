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

// Package taint implements the frontend of the taint analysis.
package taint

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/awslabs/tattler/analysis"
	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/taint"
	"github.com/awslabs/tattler/cmd/tattler/tools"
	"github.com/awslabs/tattler/internal/formatutil"
	"github.com/awslabs/tattler/internal/funcutil"
	"github.com/panjf2000/ants/v2"
)

// Usage for the taint tool
const Usage = ` Run the taint tracking problems of a configuration over program graphs.
Usage:
  tattler taint [options] <graph file path(s)>
Examples:
  % tattler taint -config config.yaml graph.json other-graph.mpk
`

// Flags represents the parsed flags for the taint analysis.
type Flags struct {
	tools.CommonFlags
	jsonOut bool
	jobs    int
}

// NewFlags returns the parsed flags for the taint analysis with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("taint")
	jsonOut := flags.FlagSet.Bool("json", false, "output results as json")
	jobs := flags.FlagSet.Int("jobs", runtime.NumCPU(), "number of graph files analyzed concurrently")
	tools.SetUsage(flags.FlagSet, Usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command taint with args %v: %v", args, err)
	}

	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
		},
		jsonOut: *jsonOut,
		jobs:    *jobs,
	}, nil
}

// fileResult is the json rendering of one problem result on one graph file
type fileResult struct {
	File    string     `json:"file"`
	Problem string     `json:"problem"`
	Status  string     `json:"status"`
	Paths   [][]string `json:"paths"`
}

// Run runs the taint analysis with flags. Each graph file is analyzed on its own
// pool worker; within a file, each problem runs on its own worker as well.
func Run(flags Flags) error {
	logger := log.New(os.Stdout, "", log.Flags())

	cfg, err := tools.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}

	files := flags.FlagSet.Args()
	if len(files) == 0 {
		return fmt.Errorf("no graph file specified")
	}

	logger.Printf(formatutil.Faint("Tattler taint tool - " + analysis.Version))

	pool, err := ants.NewPool(flags.jobs)
	if err != nil {
		return fmt.Errorf("could not create worker pool: %v", err)
	}
	defer pool.Release()

	start := time.Now()
	var mu sync.Mutex
	var all []fileResult
	var firstErr error
	wg := &sync.WaitGroup{}
	for _, file := range files {
		file := file
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results, err := analyzeFile(cfg, file, flags.jsonOut)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			all = append(all, results...)
		})
		if submitErr != nil {
			wg.Done()
			return fmt.Errorf("could not submit %s to worker pool: %v", file, submitErr)
		}
	}
	wg.Wait()
	duration := time.Since(start)

	if firstErr != nil {
		return firstErr
	}

	if flags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	logger.Printf(strings.Repeat("*", 80))
	logger.Printf("Analysis took %3.4f s", duration.Seconds())
	detected := funcutil.Exists(all, func(r fileResult) bool { return len(r.Paths) > 0 })
	if detected {
		logger.Printf("RESULT:\n\t\t%s", formatutil.Red("Taint flows detected!"))
	} else {
		logger.Printf("RESULT:\n\t\t%s", formatutil.Green("No taint flows detected ✓"))
	}
	return nil
}

// analyzeFile runs every problem of the config over one graph file
func analyzeFile(cfg *config.Config, file string, quiet bool) ([]fileResult, error) {
	g, err := tools.LoadGraph(file)
	if err != nil {
		return nil, err
	}
	state := dataflow.NewAnalyzerState(g, cfg)
	state.Logger.Infof("Analyzing %s (%d nodes, %d edges)", file, g.NumNodes(), g.NumEdges())

	results := analysis.RunProblems(context.Background(), state)
	out := make([]fileResult, 0, len(results))
	for _, r := range results {
		if !quiet {
			if r.Err != nil {
				state.Logger.Errorf("%s: %s: %v", file, r.Problem, r.Err)
			} else if err := taint.WriteReport(state, r.Report); err != nil {
				return nil, err
			}
			for _, perr := range r.PredicateErrors {
				state.Logger.Warnf("%s: %s: %v", file, r.Problem, perr)
			}
		}
		out = append(out, fileResult{
			File:    file,
			Problem: r.Problem,
			Status:  r.Status(),
			Paths:   funcutil.Map(r.Report.Paths, func(p dataflow.Path) []string { return p }),
		})
	}
	return out, nil
}
