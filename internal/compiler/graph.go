package compiler

import (
	"errors"
	"fmt"
	"sort"

	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
)

var errCycle = errors.New("cycle detected")

// topoSort returns node indices in dependency order.
//
// depsFn(i) yields indices that must come before i.
//
// The result is deterministic: when multiple nodes are available, the
// smallest index is picked. On a cycle the partial order is returned with
// errCycle.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		deps := depsFn(i)
		for _, d := range deps {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	// Deterministic traversal.
	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return order, errCycle
	}

	return order, nil
}

// findCycle walks edges depth first from the lowest index and returns one
// cycle as a closed index path, e.g. [a b a].
func findCycle(n int, edges func(i int) []int) []int {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, n)
	parent := make([]int, n)

	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray

		for _, v := range edges(u) {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back edge u -> v closes v ... u -> v.
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}

				cycle = append(cycle, v)

				// Reverse into forward order and close the loop.
				for l, r := 0, len(cycle)-1; l < r; l, r = l+1, r-1 {
					cycle[l], cycle[r] = cycle[r], cycle[l]
				}

				cycle = append(cycle, v)

				return true
			}
		}

		color[u] = black

		return false
	}

	for i := range n {
		if color[i] == white && dfs(i) {
			break
		}
	}

	return cycle
}

// sortStructs orders structs so that every referencing struct precedes the
// structs it references.
func (c *compiler) sortStructs() error {
	names := c.structOrder
	index := make(map[string]int, len(names))

	for i, name := range names {
		index[name] = i
	}

	refs := make([][]int, len(names))
	parents := make([][]int, len(names))

	for i, name := range names {
		for _, ref := range c.structs[name].References() {
			j, ok := index[ref]
			if !ok {
				continue
			}

			refs[i] = append(refs[i], j)
			parents[j] = append(parents[j], i)
		}

		sort.Ints(refs[i])
	}

	order, err := topoSort(len(names), func(i int) []int { return parents[i] })
	if err != nil && !errors.Is(err, errCycle) {
		return err
	}

	c.order = make([]string, 0, len(order))
	for _, i := range order {
		c.order = append(c.order, names[i])
	}

	if err == nil {
		return nil
	}

	placed := make(map[int]bool, len(order))
	for _, i := range order {
		placed[i] = true
	}

	for i, name := range names {
		if !placed[i] {
			c.structs[name].Cycle = true
		}
	}

	witness := findCycle(len(names), func(i int) []int { return refs[i] })

	path := make([]string, len(witness))
	for i, idx := range witness {
		path[i] = names[idx]
	}

	cerr := &errdefs.CycleError{Path: path}
	doc := ""

	if len(path) > 0 {
		doc = c.structs[path[0]].Document
	}

	return c.report(doc, withCode(diagnostic.CodeDefinitionCycle, cerr))
}
