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

package analysis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/dataflow"
	"github.com/awslabs/tattler/analysis/program"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadTestState(t *testing.T) *dataflow.AnalyzerState {
	t.Helper()
	cfg, err := config.Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	g, err := program.Load(filepath.Join("testdata", "graphs", "sample.json"))
	if err != nil {
		t.Fatalf("loading graph: %v", err)
	}
	return dataflow.NewAnalyzerState(g, cfg)
}

func pathStrings(ps []dataflow.Path) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.String())
	}
	return out
}

func TestRunProblems(t *testing.T) {
	state := loadTestState(t)
	results := RunProblems(context.Background(), state)
	if len(results) != 3 {
		t.Fatalf("expected three results, got %d", len(results))
	}

	want := map[string][]string{
		"insecure-trust-manager": {"tm-new -> tm-array -> ctx-init-arg"},
		"jsonp-injection":        {"req-param -> callback-name -> resp-write"},
		"xml-external-entity":    {"xml-input -> helper-in -> helper-out -> parser-arg"},
	}
	// results come back in config order
	order := []string{"insecure-trust-manager", "jsonp-injection", "xml-external-entity"}
	for i, r := range results {
		if r.Problem != order[i] {
			t.Errorf("result %d is %q, want %q", i, r.Problem, order[i])
			continue
		}
		if r.Status() != StatusOk {
			t.Errorf("%s: status %q, err %v", r.Problem, r.Status(), r.Err)
			continue
		}
		if len(r.PredicateErrors) != 0 {
			t.Errorf("%s: unexpected predicate errors: %v", r.Problem, r.PredicateErrors)
		}
		got := pathStrings(r.Report.Paths)
		if len(got) != len(want[r.Problem]) {
			t.Errorf("%s: got paths %v, want %v", r.Problem, got, want[r.Problem])
			continue
		}
		for j := range got {
			if got[j] != want[r.Problem][j] {
				t.Errorf("%s: path %d is %q, want %q", r.Problem, j, got[j], want[r.Problem][j])
			}
		}
	}
	if state.HasErrors() {
		t.Errorf("state should have no stored errors: %v", state.CheckError())
	}
}

func TestRunProblemSingle(t *testing.T) {
	state := loadTestState(t)
	r := RunProblem(context.Background(), state, 1)
	if r.Problem != "jsonp-injection" || r.Status() != StatusOk {
		t.Fatalf("unexpected result: %+v", r)
	}
	// the sanitized route through jsonp-validate must not be reported
	for _, p := range r.Report.Paths {
		for _, id := range p {
			if id == "jsonp-validate" {
				t.Errorf("path crosses the sanitizer: %v", p)
			}
		}
	}
}

func TestRunProblemsMalformedGraph(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	g := program.NewGraph(
		[]program.Node{{ID: "p", Kind: program.KindParameter}},
		[]program.Edge{{From: "p", To: "ghost", Kind: program.EdgeDirect}},
	)
	state := dataflow.NewAnalyzerState(g, cfg)
	results := RunProblems(context.Background(), state)
	for _, r := range results {
		if r.Status() != StatusMalformedGraph {
			t.Errorf("%s: status %q, want %q", r.Problem, r.Status(), StatusMalformedGraph)
		}
	}
	if !state.HasErrors() {
		t.Errorf("state should have stored the failures")
	}
	if errs := state.CheckError(); len(errs) != len(results) {
		t.Errorf("expected %d stored errors, got %d", len(results), len(errs))
	}
	if state.HasErrors() {
		t.Errorf("CheckError should drain the state")
	}
}

func TestRunProblemsCancelled(t *testing.T) {
	state := loadTestState(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := RunProblems(ctx, state)
	for _, r := range results {
		if r.Status() != StatusError {
			t.Errorf("%s: status %q, want %q", r.Problem, r.Status(), StatusError)
		}
	}
	state.CheckError()
}
