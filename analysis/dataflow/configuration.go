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

package dataflow

import "github.com/awslabs/tattler/analysis/program"

// A Configuration bundles the predicates that define one taint tracking problem.
// Implementations must be pure functions of the immutable graph state: the engine
// memoizes every predicate per (configuration, node) or (configuration, node pair)
// and never re-evaluates a cached answer.
//
// Distinct configurations never share caches; registering the same Configuration
// value twice yields two independent runs.
type Configuration interface {
	// Name identifies the configuration in results and reports
	Name() string

	// IsSource returns true when the node is a taint source
	IsSource(n program.Node) bool

	// IsSink returns true when the node is a taint sink
	IsSink(n program.Node) bool

	// IsBarrier returns true when the node stops taint propagation. A barrier
	// absorbs the path: the node is never part of a reported path and nothing is
	// reachable through it.
	IsBarrier(n program.Node) bool

	// IsAdditionalFlowStep returns true when taint flows from n1 to n2 even though
	// the static edges do not connect them
	IsAdditionalFlowStep(n1 program.Node, n2 program.Node) bool

	// AllowImplicitRead returns true when the node may read the given container
	// content without a prior matching store
	AllowImplicitRead(n program.Node, label program.ContentLabel) bool
}

// BaseConfiguration provides always-false defaults for the optional predicates so
// that a configuration only implements what it needs. Embed it and override Name,
// IsSource and IsSink at least.
type BaseConfiguration struct{}

// IsBarrier always returns false
func (BaseConfiguration) IsBarrier(program.Node) bool { return false }

// IsAdditionalFlowStep always returns false
func (BaseConfiguration) IsAdditionalFlowStep(program.Node, program.Node) bool { return false }

// AllowImplicitRead always returns false
func (BaseConfiguration) AllowImplicitRead(program.Node, program.ContentLabel) bool { return false }
