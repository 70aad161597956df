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

// Package dataflow implements the taint propagation engine: pluggable predicate
// configurations, per-configuration flow graph construction and the multi-source
// reachability search that produces tainted paths.
//
// A Configuration classifies the nodes of a program graph as sources, sinks and
// barriers, and may add flow steps the static edges miss. A Registry wraps one
// configuration with memoization and panic recovery so that a misbehaving predicate
// degrades a single node instead of the whole run. BuildFlowGraph merges the static
// edges of the program graph with the synthesized additional steps into the graph
// Propagate traverses. Propagation is content sensitive: taint that flows into
// container content (a field, an array element, a map key) is only read back out
// through a load with a matching label, unless the configuration explicitly allows
// implicit reads for the reading node.
//
// Distinct configurations are fully independent. Each gets its own registry, caches
// and flow graph, so configurations may run concurrently without locking.
package dataflow
