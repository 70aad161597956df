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

import "strings"

// A Path is an ordered sequence of node identifiers from a source to a sink. A path
// of length one is a node that is both a source and a sink. Paths are produced by
// Propagate and immutable afterwards.
type Path []string

// Source returns the identifier of the path's source node
func (p Path) Source() string { return p[0] }

// Sink returns the identifier of the path's sink node
func (p Path) Sink() string { return p[len(p)-1] }

// Key returns a string that is equal for exactly the structurally identical paths
func (p Path) Key() string { return strings.Join(p, "\x00") }

func (p Path) String() string { return strings.Join(p, " -> ") }

// ComparePaths orders paths by (source identifier, sink identifier, length, then
// node-by-node identifier comparison). It returns a negative number when p sorts
// before q, zero when they are structurally identical, and a positive number
// otherwise. This ordering makes reported results reproducible across runs.
func ComparePaths(p Path, q Path) int {
	if c := strings.Compare(p.Source(), q.Source()); c != 0 {
		return c
	}
	if c := strings.Compare(p.Sink(), q.Sink()); c != 0 {
		return c
	}
	if len(p) != len(q) {
		if len(p) < len(q) {
			return -1
		}
		return 1
	}
	for i := range p {
		if c := strings.Compare(p[i], q[i]); c != 0 {
			return c
		}
	}
	return 0
}
