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
	"testing"

	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/program"
)

func TestProblemConfigurationName(t *testing.T) {
	named := NewProblemConfiguration(0, config.TaintSpec{Name: "jsonp"})
	if named.Name() != "jsonp" {
		t.Errorf("got %q, want jsonp", named.Name())
	}
	unnamed := NewProblemConfiguration(2, config.TaintSpec{})
	if unnamed.Name() != "problem-2" {
		t.Errorf("got %q, want problem-2", unnamed.Name())
	}
}

func TestProblemConfigurationPredicates(t *testing.T) {
	spec := config.TaintSpec{
		Name:       "p",
		Sources:    []config.NodeIdentifier{{Kind: "parameter"}},
		Sinks:      []config.NodeIdentifier{{ID: "sink"}},
		Sanitizers: []config.NodeIdentifier{{Proc: "clean"}},
		Filters:    []config.NodeIdentifier{{Type: "int"}},
		Steps: []config.StepIdentifier{
			{From: config.NodeIdentifier{ID: "a"}, To: config.NodeIdentifier{ID: "b"}},
		},
		ImplicitReads: []config.ImplicitReadSpec{
			{Node: config.NodeIdentifier{Kind: "expression"}, Labels: []config.ContentPattern{{Kind: "array"}}},
		},
	}
	pc := NewProblemConfiguration(0, spec)

	if !pc.IsSource(program.Node{ID: "x", Kind: program.KindParameter}) {
		t.Errorf("parameter node should be a source")
	}
	if pc.IsSource(program.Node{ID: "x", Kind: program.KindCall}) {
		t.Errorf("call node should not be a source")
	}
	if !pc.IsSink(program.Node{ID: "sink"}) {
		t.Errorf("sink node not recognized")
	}
	if !pc.IsBarrier(program.Node{ID: "x", Proc: "clean"}) {
		t.Errorf("sanitizer should be a barrier")
	}
	if !pc.IsBarrier(program.Node{ID: "x", Type: "int"}) {
		t.Errorf("filter should be a barrier")
	}
	if pc.IsBarrier(program.Node{ID: "x", Proc: "dirty", Type: "string"}) {
		t.Errorf("unmatched node should not be a barrier")
	}
	if !pc.IsAdditionalFlowStep(program.Node{ID: "a"}, program.Node{ID: "b"}) {
		t.Errorf("step pair not recognized")
	}
	if pc.IsAdditionalFlowStep(program.Node{ID: "b"}, program.Node{ID: "a"}) {
		t.Errorf("steps are ordered")
	}
	if !pc.AllowImplicitRead(program.Node{ID: "x", Kind: program.KindExpression},
		program.ContentLabel{Kind: "array"}) {
		t.Errorf("implicit array read should be allowed")
	}
	if pc.AllowImplicitRead(program.Node{ID: "x", Kind: program.KindExpression},
		program.ContentLabel{Kind: "field", Name: "f"}) {
		t.Errorf("implicit field read should not be allowed")
	}
}
