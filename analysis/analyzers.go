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

// Package analysis contains the entry points for running the taint tracking
// problems of a configuration over a program graph.
package analysis

import (
	"context"
	"errors"
	"runtime"

	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/taint"
	"golang.org/x/sync/errgroup"
)

// Version is the version string reported by the tools
const Version = "v0.3.1"

// StatusOk is the status of a problem run that completed
const StatusOk = "ok"

// StatusMalformedGraph is the status of a problem run aborted by a structural defect
// in the program graph
const StatusMalformedGraph = "MalformedGraph"

// StatusError is the status of a problem run aborted by any other error (e.g.
// cancellation)
const StatusError = "error"

// A ProblemResult is the outcome of one problem run. Problem runs are independent:
// a failing run never aborts its siblings, it only carries its own error.
type ProblemResult struct {
	// Problem is the name of the problem
	Problem string

	// Report holds the deduplicated, ordered paths; empty when Err is set
	Report taint.Report

	// PredicateErrors lists the predicates that panicked during the run. The
	// offending nodes were conservatively excluded; these do not abort the run.
	PredicateErrors []*dataflow.PredicateError

	// Err is the fatal error of the run, if any
	Err error
}

// Status returns "ok", "MalformedGraph" or "error"
func (r ProblemResult) Status() string {
	switch {
	case r.Err == nil:
		return StatusOk
	case errors.Is(r.Err, dataflow.ErrMalformedGraph):
		return StatusMalformedGraph
	default:
		return StatusError
	}
}

// RunProblems runs every taint problem of the state's config over the state's
// program graph. Problems are fully independent and run on their own workers,
// synchronizing only at result aggregation; the number of concurrent workers is
// bounded by the number of CPUs. Results are returned in config order regardless of
// completion order.
//
// Cancelling the context aborts the runs that are still in flight; completed
// problems keep their results.
func RunProblems(ctx context.Context, state *dataflow.AnalyzerState) []ProblemResult {
	specs := state.Config.TaintProblems
	results := make([]ProblemResult, len(specs))

	group := &errgroup.Group{}
	group.SetLimit(runtime.NumCPU())
	for i := range specs {
		i := i
		group.Go(func() error {
			results[i] = RunProblem(ctx, state, i)
			return nil
		})
	}
	// workers never return errors; failures live in their ProblemResult
	group.Wait()
	return results
}

// RunProblem runs the i-th taint problem of the state's config: it builds the
// problem's flow graph, propagates taint and packages the discovered paths into a
// report. A malformed program graph or a cancelled context aborts only this run.
func RunProblem(ctx context.Context, state *dataflow.AnalyzerState, i int) ProblemResult {
	cfg := taint.NewProblemConfiguration(i, state.Config.TaintProblems[i])
	result := ProblemResult{Problem: cfg.Name()}

	reg := dataflow.NewRegistry(state.Graph, cfg, state.Logger)
	fg, err := dataflow.BuildFlowGraph(state, reg)
	if err != nil {
		state.AddError(cfg.Name(), err)
		result.Err = err
		result.PredicateErrors = reg.PredicateErrors()
		return result
	}

	paths, err := dataflow.Propagate(ctx, fg, reg)
	result.PredicateErrors = reg.PredicateErrors()
	if err != nil {
		state.AddError(cfg.Name(), err)
		result.Err = err
		return result
	}

	result.Report = taint.NewReport(cfg.Name(), paths)
	return result
}
