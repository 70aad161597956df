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

package taint

import (
	"fmt"
	"os"

	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/internal/formatutil"
	"golang.org/x/exp/slices"
)

// A Report is the immutable result of one problem run: the deduplicated,
// deterministically ordered list of discovered paths.
type Report struct {
	// Problem is the name of the problem the report belongs to
	Problem string

	// Paths is sorted by (source identifier, sink identifier, path length, then
	// node-by-node identifier comparison)
	Paths []dataflow.Path
}

// NewReport deduplicates structurally identical paths and sorts the remainder into
// the deterministic report order. The input slice is not modified.
func NewReport(problem string, paths []dataflow.Path) Report {
	seen := map[string]bool{}
	var kept []dataflow.Path
	for _, p := range paths {
		if key := p.Key(); !seen[key] {
			seen[key] = true
			kept = append(kept, p)
		}
	}
	slices.SortFunc(kept, func(p, q dataflow.Path) bool { return dataflow.ComparePaths(p, q) < 0 })
	return Report{Problem: problem, Paths: kept}
}

// WriteReport logs every flow of the report and, when the ReportPaths option is set,
// writes one taint-*.out trace file per flow into the reports directory. Positions
// are printed for the nodes that carry them.
func WriteReport(state *dataflow.AnalyzerState, report Report) error {
	logger := state.Logger
	if len(report.Paths) == 0 {
		logger.Infof("%s: %s", report.Problem, formatutil.Green("no taint flows detected ✓"))
		return nil
	}
	logger.Errorf("%s: %s", report.Problem,
		formatutil.Red(fmt.Sprintf("%d taint flow(s) detected!", len(report.Paths))))
	for _, p := range report.Paths {
		// node identifiers come from the input file, strip escape sequences
		logger.Infof(" 💀 %s flows to %s",
			formatutil.Green(formatutil.Sanitize(p.Source())),
			formatutil.Red(formatutil.Sanitize(p.Sink())))
		if state.Config.ReportPaths {
			if err := writeFlowFile(state, report.Problem, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFlowFile(state *dataflow.AnalyzerState, problem string, p dataflow.Path) error {
	tmp, err := os.CreateTemp(state.Config.ReportsDir, "taint-*.out")
	if err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	defer tmp.Close()
	state.Logger.Infof("Report in %s", tmp.Name())

	fmt.Fprintf(tmp, "Problem: %s\n", problem)
	fmt.Fprintf(tmp, "Source: %s\n", p.Source())
	fmt.Fprintf(tmp, "Sink: %s\n", p.Sink())
	fmt.Fprintf(tmp, "Trace:\n")
	for _, id := range p {
		n, ok := state.Graph.NodeByID(id)
		if ok && n.Pos.IsValid() {
			fmt.Fprintf(tmp, "  %s at %s\n", id, n.Pos)
		} else {
			fmt.Fprintf(tmp, "  %s\n", id)
		}
	}
	return nil
}
