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

import (
	"fmt"

	"github.com/awslabs/tattler/analysis/config"
	"github.com/awslabs/tattler/analysis/program"
)

// A PredicateError records a registered predicate panicking on a node. The node is
// conservatively treated as failing the predicate; the error is logged and kept in
// the registry so the caller can surface it in the problem status.
type PredicateError struct {
	// Predicate is the name of the predicate that panicked (e.g. "IsSource")
	Predicate string

	// NodeID identifies the offending node; for pairwise predicates, the pair is
	// rendered as "from -> to"
	NodeID string

	// Recovered is the value recovered from the panic
	Recovered any
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("predicate %s failed on node %s: %v", e.Predicate, e.NodeID, e.Recovered)
}

// memo values for the per-node caches
const (
	memoUnknown int8 = iota
	memoFalse
	memoTrue
)

type implicitKey struct {
	node  int
	label program.ContentLabel
}

// A Registry wraps one configuration with per-node and per-pair memoization and
// panic recovery. Predicates are pure functions of the immutable graph, so a cached
// answer is never re-evaluated. The caches belong to one problem run on one worker;
// the registry is not safe for concurrent use and is never shared between
// configurations.
type Registry struct {
	cfg    Configuration
	graph  *program.Graph
	logger *config.LogGroup

	sources  []int8
	sinks    []int8
	barriers []int8
	steps    map[[2]int]bool
	implicit map[implicitKey]bool

	errs []*PredicateError
}

// NewRegistry returns a registry for the configuration over the given graph
func NewRegistry(g *program.Graph, cfg Configuration, logger *config.LogGroup) *Registry {
	n := g.NumNodes()
	return &Registry{
		cfg:      cfg,
		graph:    g,
		logger:   logger,
		sources:  make([]int8, n),
		sinks:    make([]int8, n),
		barriers: make([]int8, n),
		steps:    map[[2]int]bool{},
		implicit: map[implicitKey]bool{},
	}
}

// Name returns the name of the wrapped configuration
func (r *Registry) Name() string { return r.cfg.Name() }

// IsSource returns the memoized source classification of the node at index i
func (r *Registry) IsSource(i int) bool {
	return r.nodePred(r.sources, i, "IsSource", r.cfg.IsSource)
}

// IsSink returns the memoized sink classification of the node at index i
func (r *Registry) IsSink(i int) bool {
	return r.nodePred(r.sinks, i, "IsSink", r.cfg.IsSink)
}

// IsBarrier returns the memoized barrier classification of the node at index i
func (r *Registry) IsBarrier(i int) bool {
	return r.nodePred(r.barriers, i, "IsBarrier", r.cfg.IsBarrier)
}

// IsAdditionalFlowStep returns the memoized additional-step classification of the
// ordered node index pair (i, j)
func (r *Registry) IsAdditionalFlowStep(i int, j int) bool {
	key := [2]int{i, j}
	if b, ok := r.steps[key]; ok {
		return b
	}
	from, to := r.graph.NodeAt(i), r.graph.NodeAt(j)
	b := r.safePred("IsAdditionalFlowStep", from.ID+" -> "+to.ID, func() bool {
		return r.cfg.IsAdditionalFlowStep(from, to)
	})
	r.steps[key] = b
	return b
}

// AllowImplicitRead returns the memoized implicit-read permission for the node at
// index i and the given content label
func (r *Registry) AllowImplicitRead(i int, label program.ContentLabel) bool {
	key := implicitKey{i, label}
	if b, ok := r.implicit[key]; ok {
		return b
	}
	n := r.graph.NodeAt(i)
	b := r.safePred("AllowImplicitRead", n.ID, func() bool {
		return r.cfg.AllowImplicitRead(n, label)
	})
	r.implicit[key] = b
	return b
}

// PredicateErrors returns the predicate errors recorded during the run, in the order
// they occurred
func (r *Registry) PredicateErrors() []*PredicateError {
	return r.errs
}

func (r *Registry) nodePred(cache []int8, i int, name string, f func(program.Node) bool) bool {
	if cache[i] != memoUnknown {
		return cache[i] == memoTrue
	}
	n := r.graph.NodeAt(i)
	b := r.safePred(name, n.ID, func() bool { return f(n) })
	if b {
		cache[i] = memoTrue
	} else {
		cache[i] = memoFalse
	}
	return b
}

// safePred evaluates a predicate, recovering from panics. A panicking predicate is
// recorded and logged, and the node is treated as failing the predicate.
func (r *Registry) safePred(name string, nodeID string, f func() bool) (b bool) {
	defer func() {
		if rec := recover(); rec != nil {
			perr := &PredicateError{Predicate: name, NodeID: nodeID, Recovered: rec}
			r.errs = append(r.errs, perr)
			r.logger.Warnf("%s: %s", r.cfg.Name(), perr.Error())
			b = false
		}
	}()
	return f()
}
