/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Network validity checking for the MedBayes engine. Proves acyclicity
with Kahn's algorithm over a deterministic min-heap of node names, extracts a stable
cycle witness for error reporting, and verifies that every node carries a CPD whose
parent set matches its in-edges and whose columns are normalized.
*/

package network

import (
	"container/heap"
	"fmt"
	"sort"
	"strings"

	"github.com/kleascm/medbayes/pkg/model"
)

// nameMinHeap is a min-heap of variable names used to make the topological
// order deterministic
type nameMinHeap []string

func (h nameMinHeap) Len() int           { return len(h) }
func (h nameMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h nameMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nameMinHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *nameMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder returns a deterministic topological ordering of the node
// names, or a StructureError carrying a cycle witness if the edges are cyclic
func (n *Network) TopologicalOrder() ([]string, error) {
	indeg := make(map[string]int, len(n.order))
	for _, name := range n.order {
		indeg[name] = len(n.parents[name])
	}

	ready := &nameMinHeap{}
	heap.Init(ready)
	for _, name := range n.order {
		if indeg[name] == 0 {
			heap.Push(ready, name)
		}
	}

	out := make([]string, 0, len(n.order))
	for ready.Len() > 0 {
		name := heap.Pop(ready).(string)
		out = append(out, name)
		for _, child := range n.children[name] {
			indeg[child]--
			if indeg[child] == 0 {
				heap.Push(ready, child)
			}
		}
	}

	if len(out) != len(n.order) {
		cycle := n.findCycle()
		return nil, &model.StructureError{
			Reason: fmt.Sprintf("edges contain a cycle: %s", strings.Join(cycle, " -> ")),
		}
	}
	return out, nil
}

// findCycle performs a deterministic DFS over sorted node names and extracts
// one cycle path as a stable witness for error messages
func (n *Network) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	names := make([]string, len(n.order))
	copy(names, n.order)
	sort.Strings(names)

	color := make(map[string]int, len(names))
	parent := make(map[string]string, len(names))

	var cycle []string
	var dfs func(u string) bool
	dfs = func(u string) bool {
		color[u] = gray
		children := n.Children(u)
		sort.Strings(children)
		for _, v := range children {
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				// Back-edge u -> v closes the cycle v ... u -> v.
				cycle = append(cycle, v)
				cur := u
				for cur != "" && cur != v {
					cycle = append(cycle, cur)
					cur = parent[cur]
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, name := range names {
		if color[name] == white && dfs(name) {
			break
		}
	}

	// The walk collects the cycle in reverse; flip it into edge order.
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}

// Check verifies the network is a valid Bayesian network using the default
// column tolerance. On success the network transitions to Validated
func (n *Network) Check() (bool, error) {
	return n.CheckTolerance(model.DefaultTolerance)
}

// CheckTolerance verifies validity with an explicit column-sum tolerance:
// the edges must be acyclic, every node must carry a CPD, each CPD's parent
// set must equal the node's in-edges, and every per-parent-combination column
// must sum to one. On success the network transitions to Validated
func (n *Network) CheckTolerance(tolerance float64) (bool, error) {
	if _, err := n.TopologicalOrder(); err != nil {
		return false, err
	}

	for _, name := range n.order {
		cpd, ok := n.cpds[name]
		if !ok {
			return false, &model.ValidationError{Node: name, Reason: "no CPD attached"}
		}
		if !sameNameSet(cpd.ParentNames(), n.parents[name]) {
			return false, &model.ValidationError{
				Node: name,
				Reason: fmt.Sprintf("CPD parents %v do not match in-edges %v",
					cpd.ParentNames(), n.parents[name]),
			}
		}
		if err := cpd.Validate(tolerance); err != nil {
			return false, err
		}
	}

	n.state = StateValidated
	return true, nil
}

// sameNameSet reports whether two name slices contain the same set of names,
// ignoring order
func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, name := range a {
		seen[name] = true
	}
	for _, name := range b {
		if !seen[name] {
			return false
		}
	}
	return true
}
