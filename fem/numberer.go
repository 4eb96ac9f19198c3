// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Numberer defines the order in which nodes receive equation numbers
type Numberer interface {
	Name() string
	Order(nnodes int, elemNodes [][]int) []int // returns node indices in numbering order
}

// NewNumberer returns a numberer by name
func NewNumberer(name string) (Numberer, error) {
	switch name {
	case "simple", "":
		return simpleNumberer{}, nil
	case "rcm":
		return rcmNumberer{}, nil
	case "amd":
		return amdNumberer{}, nil
	}
	return nil, chk.Err("cannot find numberer named %q", name)
}

// simpleNumberer keeps the insertion order
type simpleNumberer struct{}

func (simpleNumberer) Name() string { return "simple" }

func (simpleNumberer) Order(nnodes int, elemNodes [][]int) (order []int) {
	order = make([]int, nnodes)
	for i := range order {
		order[i] = i
	}
	return
}

// rcmNumberer implements the reverse Cuthill-McKee ordering
type rcmNumberer struct{}

func (rcmNumberer) Name() string { return "rcm" }

func (rcmNumberer) Order(nnodes int, elemNodes [][]int) (order []int) {
	adj := adjacency(nnodes, elemNodes)
	deg := func(i int) int { return len(adj[i]) }
	visited := make([]bool, nnodes)
	order = make([]int, 0, nnodes)
	for len(order) < nnodes {

		// start each component at an unvisited node with minimum degree
		start := -1
		for i := 0; i < nnodes; i++ {
			if !visited[i] && (start < 0 || deg(i) < deg(start)) {
				start = i
			}
		}

		// breadth-first search with neighbours sorted by degree
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			order = append(order, n)
			var next []int
			for _, m := range adj[n] {
				if !visited[m] {
					visited[m] = true
					next = append(next, m)
				}
			}
			sort.SliceStable(next, func(a, b int) bool {
				if deg(next[a]) == deg(next[b]) {
					return next[a] < next[b]
				}
				return deg(next[a]) < deg(next[b])
			})
			queue = append(queue, next...)
		}
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return
}

// amdNumberer eliminates nodes by minimum degree on the node graph
type amdNumberer struct{}

func (amdNumberer) Name() string { return "amd" }

func (amdNumberer) Order(nnodes int, elemNodes [][]int) (order []int) {
	lists := adjacency(nnodes, elemNodes)
	adj := make([]map[int]bool, nnodes)
	for i, l := range lists {
		adj[i] = make(map[int]bool, len(l))
		for _, j := range l {
			adj[i][j] = true
		}
	}
	done := make([]bool, nnodes)
	order = make([]int, 0, nnodes)
	for len(order) < nnodes {
		p := -1
		for i := 0; i < nnodes; i++ {
			if !done[i] && (p < 0 || len(adj[i]) < len(adj[p])) {
				p = i
			}
		}
		done[p] = true
		order = append(order, p)

		// the neighbours of p become a clique
		nbrs := make([]int, 0, len(adj[p]))
		for j := range adj[p] {
			nbrs = append(nbrs, j)
		}
		for _, a := range nbrs {
			delete(adj[a], p)
			for _, b := range nbrs {
				if a != b {
					adj[a][b] = true
				}
			}
		}
		adj[p] = nil
	}
	return
}

// adjacency returns the sorted lists of neighbours of each node
func adjacency(nnodes int, elemNodes [][]int) (adj [][]int) {
	sets := make([]map[int]bool, nnodes)
	for i := range sets {
		sets[i] = make(map[int]bool)
	}
	for _, verts := range elemNodes {
		for _, a := range verts {
			for _, b := range verts {
				if a != b {
					sets[a][b] = true
				}
			}
		}
	}
	adj = make([][]int, nnodes)
	for i, s := range sets {
		for j := range s {
			adj[i] = append(adj[i], j)
		}
		sort.Ints(adj[i])
	}
	return
}

// bandwidth returns the half bandwidth of the equation graph given the
// equations of each element
func bandwidth(elemEqs [][]int) (bw int) {
	for _, eqs := range elemEqs {
		for _, a := range eqs {
			for _, b := range eqs {
				if a >= 0 && b >= 0 && a-b > bw {
					bw = a - b
				}
			}
		}
	}
	return
}
