package catalog

import "sort"

// orderTables returns table indices so that every table follows the tables
// it depends on. depsFn(i) yields the indices i references.
//
// The result is deterministic: when several tables are ready the smallest
// index goes first. Tables that reference each other cannot all satisfy
// that rule; the cycle is broken at its smallest pending index.
func orderTables(n int, depsFn func(i int) []int) []int {
	if n <= 0 {
		return nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n || d == i {
				continue
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	done := make([]bool, n)
	order := make([]int, 0, n)

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	for len(order) < n {
		if len(ready) == 0 {
			// cycle
			for i := range n {
				if !done[i] {
					ready = append(ready, i)
					indeg[i] = 0

					break
				}
			}
		}

		i := ready[0]
		ready = ready[1:]

		if done[i] {
			continue
		}

		done[i] = true
		order = append(order, i)

		for _, j := range out[i] {
			if done[j] {
				continue
			}

			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	return order
}
