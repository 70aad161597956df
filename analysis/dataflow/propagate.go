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
	"context"

	"github.com/awslabs/tattler/analysis/program"
	"github.com/awslabs/tattler/internal/funcutil"
	"golang.org/x/tools/container/intsets"
)

// An accessState is the immutable stack of unmatched content-store labels carried by
// a taint during propagation. nil is the empty state: the value itself is tainted.
// A store edge pushes its label, a load edge pops on a matching label. States are
// shared structurally, never mutated.
type accessState struct {
	label program.ContentLabel
	tail  *accessState
	depth int
	key   string
}

func pushAccess(a *accessState, label program.ContentLabel) *accessState {
	depth := 1
	key := label.String()
	if a != nil {
		depth = a.depth + 1
		key = a.key + ";" + key
	}
	return &accessState{label: label, tail: a, depth: depth, key: key}
}

func accessKey(a *accessState) string {
	if a == nil {
		return ""
	}
	return a.key
}

func accessDepth(a *accessState) int {
	if a == nil {
		return 0
	}
	return a.depth
}

// A visitEntry is one visited (node, access-state) pair. Entries record every
// incoming predecessor so that all distinct paths through the pair can be
// reconstructed after the frontier is exhausted.
type visitEntry struct {
	node   int
	access *accessState

	// preds are all the (predecessor entry, edge) pairs the entry was reached
	// through, in traversal order
	preds []predLink

	// isSeed marks entries created by seeding a source node
	isSeed bool

	// isSinkHit marks entries recorded as sink hits (sink node, empty access state)
	isSinkHit bool
}

type predLink struct {
	prev *visitEntry
	edge FlowEdge
}

// a stateSet groups the visited entries sharing one access state. The seen set gives
// constant-time membership over dense node indices.
type stateSet struct {
	seen    intsets.Sparse
	entries map[int]*visitEntry
}

type propagation struct {
	fg  *FlowGraph
	reg *Registry

	states   map[string]*stateSet
	frontier []*visitEntry
	sinkHits []*visitEntry

	maxAccessDepth int
}

// Propagate performs the multi-source reachability search over the flow graph,
// returning every source-to-sink path discovered for the configuration wrapped by
// reg. Each (node, access-state) pair is expanded at most once, so the search
// terminates on any finite graph, cycles included. Barrier nodes are never entered.
// A sink hit is recorded when a sink node is reached with an empty access state; a
// node that is both a source and a sink (and not a barrier) yields the single-node
// path.
//
// The context is checked at every frontier-expansion iteration; cancellation aborts
// only this configuration's run and returns ctx.Err().
//
// The number of reported paths is capped by the MaxAlarms option; the traversal
// order is deterministic, but callers that need the output ordering contract should
// sort the result (see the taint package reporter).
func Propagate(ctx context.Context, fg *FlowGraph, reg *Registry) ([]Path, error) {
	pr := &propagation{
		fg:             fg,
		reg:            reg,
		states:         map[string]*stateSet{},
		maxAccessDepth: fg.State.Config.MaxAccessDepth,
	}

	pr.seed()

	for len(pr.frontier) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		cur := pr.frontier[0]
		pr.frontier = pr.frontier[1:]
		pr.expand(cur)
	}

	return pr.collectPaths(ctx)
}

// seed initializes the frontier with every non-barrier source node, empty access
// state. Nodes are seeded in index order so the traversal is deterministic.
func (pr *propagation) seed() {
	n := pr.fg.NumNodes()
	for i := 0; i < n; i++ {
		if !pr.reg.IsSource(i) || pr.reg.IsBarrier(i) {
			continue
		}
		entry := pr.record(i, nil)
		entry.isSeed = true
		pr.frontier = append(pr.frontier, entry)
	}
}

// record returns the entry for (node, access), creating and classifying it if the
// pair has not been visited yet. The second return of the internal lookup is folded
// in: a newly created entry is also checked for a sink hit.
func (pr *propagation) record(node int, access *accessState) *visitEntry {
	key := accessKey(access)
	set := pr.states[key]
	if set == nil {
		set = &stateSet{entries: map[int]*visitEntry{}}
		pr.states[key] = set
	}
	if set.seen.Has(node) {
		return set.entries[node]
	}
	set.seen.Insert(node)
	entry := &visitEntry{node: node, access: access}
	set.entries[node] = entry
	if access == nil && pr.reg.IsSink(node) {
		entry.isSinkHit = true
		pr.sinkHits = append(pr.sinkHits, entry)
	}
	return entry
}

// expand pushes the taint at cur across every outgoing flow edge. Sinks absorb:
// a non-seed entry at a sink node is never expanded (a source that is also a sink
// still expands from its seeding).
func (pr *propagation) expand(cur *visitEntry) {
	if cur.isSinkHit && !cur.isSeed {
		return
	}
	for _, e := range pr.fg.Succs(cur.node) {
		next, ok := pr.step(cur, e)
		if !ok {
			continue
		}
		if pr.reg.IsBarrier(e.To) {
			continue
		}
		key := accessKey(next)
		set := pr.states[key]
		known := set != nil && set.seen.Has(e.To)
		entry := pr.record(e.To, next)
		entry.preds = append(entry.preds, predLink{prev: cur, edge: e})
		if !known {
			pr.frontier = append(pr.frontier, entry)
		}
	}
}

// step computes the access state after traversing e from cur, or ok=false when the
// content matching rule blocks the edge. One rule covers every content kind: a load
// pops only the label the most recent unmatched store pushed, and a load from an
// empty state traverses only when the reading node allows implicit reads of that
// label. Stores beyond the configured depth saturate the state instead of growing it.
func (pr *propagation) step(cur *visitEntry, e FlowEdge) (*accessState, bool) {
	switch e.Kind {
	case program.EdgeContentStore:
		if accessDepth(cur.access) >= pr.maxAccessDepth {
			return cur.access, true
		}
		return pushAccess(cur.access, e.Label), true
	case program.EdgeContentLoad:
		if cur.access != nil {
			if cur.access.label == e.Label {
				return cur.access.tail, true
			}
			return nil, false
		}
		if pr.reg.AllowImplicitRead(e.To, e.Label) {
			return nil, true
		}
		return nil, false
	default:
		return cur.access, true
	}
}

// collectPaths enumerates, for every recorded sink hit, all simple paths backwards
// through the predecessor links until a seed entry. Both a direct additional step
// and a longer static route between the same endpoints yield distinct paths. The
// enumeration stops once the MaxAlarms cap is reached.
func (pr *propagation) collectPaths(ctx context.Context) ([]Path, error) {
	var paths []Path
	cfg := pr.fg.State.Config
	for _, sink := range pr.sinkHits {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		onPath := map[int]bool{}
		var trace []string
		var walk func(entry *visitEntry) bool
		walk = func(entry *visitEntry) bool {
			if cfg.ExceedsMaxAlarms(len(paths)) {
				return false
			}
			onPath[entry.node] = true
			trace = append(trace, pr.fg.State.Graph.NodeAt(entry.node).ID)
			defer func() {
				onPath[entry.node] = false
				trace = trace[:len(trace)-1]
			}()
			if entry.isSeed {
				p := make(Path, len(trace))
				copy(p, trace)
				funcutil.Reverse(p)
				paths = append(paths, p)
			}
			for _, pred := range entry.preds {
				if onPath[pred.prev.node] {
					continue
				}
				if !walk(pred.prev) {
					return false
				}
			}
			return true
		}
		if !walk(sink) {
			break
		}
	}
	return paths, nil
}
