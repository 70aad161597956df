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

	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/program"
)

// A ProblemConfiguration is the pattern-based implementation of
// dataflow.Configuration: every predicate is answered by matching the node's
// attributes against the identifier lists of one config.TaintSpec. Sanitizers and
// filters both act as barriers.
type ProblemConfiguration struct {
	name string
	spec config.TaintSpec
}

// NewProblemConfiguration returns the configuration defined by the spec. Unnamed
// specs are named by their position in the config file ("problem-<i>").
func NewProblemConfiguration(i int, spec config.TaintSpec) *ProblemConfiguration {
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("problem-%d", i)
	}
	return &ProblemConfiguration{name: name, spec: spec}
}

// Name returns the problem name
func (p *ProblemConfiguration) Name() string { return p.name }

// IsSource returns true when the node matches a source pattern of the spec
func (p *ProblemConfiguration) IsSource(n program.Node) bool {
	return p.spec.IsSource(nodeAttrs(n))
}

// IsSink returns true when the node matches a sink pattern of the spec
func (p *ProblemConfiguration) IsSink(n program.Node) bool {
	return p.spec.IsSink(nodeAttrs(n))
}

// IsBarrier returns true when the node matches a sanitizer or a filter pattern of
// the spec
func (p *ProblemConfiguration) IsBarrier(n program.Node) bool {
	return p.spec.IsSanitizer(nodeAttrs(n))
}

// IsAdditionalFlowStep returns true when the ordered node pair matches a step
// pattern of the spec
func (p *ProblemConfiguration) IsAdditionalFlowStep(n1 program.Node, n2 program.Node) bool {
	return p.spec.IsStep(nodeAttrs(n1), nodeAttrs(n2))
}

// AllowImplicitRead returns true when the node and content label match an
// implicit-read pattern of the spec
func (p *ProblemConfiguration) AllowImplicitRead(n program.Node, label program.ContentLabel) bool {
	return p.spec.AllowsImplicitRead(nodeAttrs(n), label.Kind, label.Name)
}

func nodeAttrs(n program.Node) config.NodeAttrs {
	return config.NodeAttrs{
		Kind: string(n.Kind),
		Type: n.Type,
		Proc: n.Proc,
		ID:   n.ID,
	}
}
