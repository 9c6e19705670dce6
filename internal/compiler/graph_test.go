package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSort_Order(t *testing.T) {
	order, err := topoSort(3, func(i int) []int {
		switch i {
		case 1:
			return []int{0}
		case 2:
			return []int{1}
		default:
			return nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTopoSort_Deterministic(t *testing.T) {
	deps := [][]int{{3}, {3}, nil, nil}

	order, err := topoSort(4, func(i int) []int { return deps[i] })
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 0, 1}, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	order, err := topoSort(3, func(i int) []int {
		switch i {
		case 0:
			return []int{1}
		case 1:
			return []int{0}
		default:
			return nil
		}
	})
	require.ErrorIs(t, err, errCycle)
	assert.Equal(t, []int{2}, order)
}

func TestFindCycle(t *testing.T) {
	edges := [][]int{{1}, {2}, {0}, nil}
	assert.Equal(t, []int{0, 1, 2, 0}, findCycle(4, func(i int) []int { return edges[i] }))

	self := [][]int{nil, {1}}
	assert.Equal(t, []int{1, 1}, findCycle(2, func(i int) []int { return self[i] }))

	acyclic := [][]int{{1}, nil}
	assert.Empty(t, findCycle(2, func(i int) []int { return acyclic[i] }))
}
