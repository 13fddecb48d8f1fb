// Copyright 2025 The txsched Authors
// This file is part of the txsched library.
//
// The txsched library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The txsched library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the txsched library. If not, see <http://www.gnu.org/licenses/>.

package scheduler

import (
	"strconv"

	"github.com/heimdalr/dag"

	"github.com/corevalidator/txsched/txtypes"
)

// ConflictGraph is the transient, per-pass DAG over account access: one
// vertex per windowed transaction, one edge per account read/write
// dependency, built once and discarded at the end of the pass.
type ConflictGraph struct {
	d        *dag.DAG
	children map[uint64][]uint64
	inDegree map[uint64]int
	roots    []uint64
}

func vertexID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// buildConflictGraph builds the dependency DAG over a window already in
// descending-priority order: for each transaction's
// writes, an edge from the last writer-or-reader of that account; for each
// read, an edge from the last writer only. Ties are broken by the window's
// own order (stable, since it is iterated in order).
func buildConflictGraph(window []ScheduledTransaction) *ConflictGraph {
	d := dag.NewDAG()
	for _, tx := range window {
		_ = d.AddVertexByID(vertexID(tx.ID), tx.ID)
	}

	lastWriter := make(map[txtypes.Pubkey]uint64)
	hasWriter := make(map[txtypes.Pubkey]bool)
	readers := make(map[txtypes.Pubkey][]uint64)

	edges := make(map[[2]uint64]bool)
	addEdge := func(src, dst uint64) {
		if src == dst {
			return
		}
		key := [2]uint64{src, dst}
		if edges[key] {
			return
		}
		edges[key] = true
		_ = d.AddEdge(vertexID(src), vertexID(dst))
	}

	for _, tx := range window {
		for _, k := range tx.Locks.Writable {
			if hasWriter[k] {
				addEdge(lastWriter[k], tx.ID)
			}
			for _, r := range readers[k] {
				addEdge(r, tx.ID)
			}
			lastWriter[k] = tx.ID
			hasWriter[k] = true
			readers[k] = nil
		}
		for _, k := range tx.Locks.ReadOnly {
			if hasWriter[k] {
				addEdge(lastWriter[k], tx.ID)
			}
			readers[k] = append(readers[k], tx.ID)
		}
	}

	g := &ConflictGraph{
		d:        d,
		children: make(map[uint64][]uint64),
		inDegree: make(map[uint64]int),
	}
	for _, tx := range window {
		parents, _ := d.GetParents(vertexID(tx.ID))
		g.inDegree[tx.ID] = len(parents)
		children, _ := d.GetChildren(vertexID(tx.ID))
		kids := make([]uint64, 0, len(children))
		for idStr := range children {
			id, _ := strconv.ParseUint(idStr, 10, 64)
			kids = append(kids, id)
		}
		g.children[tx.ID] = kids
		if len(parents) == 0 {
			g.roots = append(g.roots, tx.ID)
		}
	}
	return g
}

// Roots returns the initial ready set: transactions with no predecessors in
// the window. A transaction whose account set intersects no other window
// member is always a root, which is the tracer-fairness property the
// dispatch loop relies on.
func (g *ConflictGraph) Roots() []uint64 {
	out := make([]uint64, len(g.roots))
	copy(out, g.roots)
	return out
}

// Release decrements the in-degree of id's successors and returns the ones
// that just became ready (in-degree reached zero).
func (g *ConflictGraph) Release(id uint64) []uint64 {
	var newlyReady []uint64
	for _, child := range g.children[id] {
		g.inDegree[child]--
		if g.inDegree[child] == 0 {
			newlyReady = append(newlyReady, child)
		}
	}
	return newlyReady
}
