package engine

// dispatcher is the "sort or enqueue" decision from spec.md §4.5's
// sort_switch: small ranges run inline, large ones are handed to the
// parallel executor's task pool. tqsort never sorts a sub-range
// itself; it always routes through the dispatcher so that group size
// alone decides whether work runs on the calling goroutine or a
// pooled worker.
type dispatcher interface {
	sortSwitch(p, n int, parent *budget)
}

// sorter groups the ternary-split quicksort (C3) against one core and
// one dispatcher. It carries no other state: recursion depth is
// bounded per top-level group by a fresh budget, not shared across
// groups, so sorters are safe to use concurrently from multiple
// goroutines as long as they operate on disjoint SA ranges (which
// sort_switch guarantees by construction, per spec.md §4.5).
type sorter struct {
	c    *core
	disp dispatcher
}

func lowKey(k uint64) uint32 { return uint32(k) }

// tqsortGroup sorts a freshly discovered unsorted group with its own
// recursion budget (see budget.go); the task pool does not call it,
// since runGroup calls tqsort with the budget sortSwitch picked. It
// returns the number of new singleton groups it
// created directly (not counting groups recursively handed back to
// the dispatcher, which report their own counts independently).
func (s *sorter) tqsortGroup(p, n int) int32 {
	return s.tqsort(p, n, newBudget(n))
}

// tqsort implements the ternary-split quicksort of spec.md §4.3. For
// n < 7 it falls back to a bingo/selection sort. For larger n it picks
// a median-of-three (median-of-nine above 40 elements) pivot on the
// low 32 bits of the packed key, three-way partitions around it, and
// routes the less-than and greater-than partitions back through the
// dispatcher while directly renumbering the equal-to-pivot middle as
// one group.
func (s *sorter) tqsort(p, n int, b *budget) int32 {
	if n < 7 {
		return s.bingoSort(p, n)
	}
	if !b.check(n) {
		return s.heapSortGroup(p, n)
	}

	c := s.c
	pivot := s.choosePivot(p, n)

	a, lo, hi, d := p, p, p+n-1, p+n-1
	for {
		for lo <= hi && lowKey(c.k(lo)) <= pivot {
			if lowKey(c.k(lo)) == pivot {
				c.swap(a, lo)
				a++
			}
			lo++
		}
		for hi >= lo && lowKey(c.k(hi)) >= pivot {
			if lowKey(c.k(hi)) == pivot {
				c.swap(hi, d)
				d--
			}
			hi--
		}
		if lo > hi {
			break
		}
		c.swap(lo, hi)
		lo++
		hi--
	}

	pn := p + n
	sSwap := min(a-p, lo-a)
	c.vecswap(p, lo-sSwap, sSwap)
	tSwap := min(d-hi, pn-1-d)
	c.vecswap(lo, pn-tSwap, tSwap)

	ltn := lo - a
	gtn := d - hi
	eqn := n - ltn - gtn

	if ltn > 0 {
		s.disp.sortSwitch(p, ltn, b)
	}
	c.assign(p+ltn, eqn)
	if gtn > 0 {
		s.disp.sortSwitch(p+n-gtn, gtn, b)
	}

	if eqn == 1 {
		return 1
	}
	return 0
}

// bingoSort handles small ranges (n < 7) by repeatedly extracting the
// minimum-keyed run: it finds the smallest rank in the remaining
// range, sweeps every element sharing that rank into the prefix, and
// renumbers that run as one group. Each maximal equal run becomes its
// own group; length-1 runs are singletons.
func (s *sorter) bingoSort(p, n int) int32 {
	c := s.c
	end := p + n
	var newSingles int32

	for lo := p; lo < end; {
		minKey := lowKey(c.k(lo))
		minPos := lo
		for j := lo + 1; j < end; j++ {
			if kj := lowKey(c.k(j)); kj < minKey {
				minKey = kj
				minPos = j
			}
		}
		c.swap(lo, minPos)

		run := lo + 1
		for j := run; j < end; j++ {
			if lowKey(c.k(j)) == minKey {
				c.swap(run, j)
				run++
			}
		}
		c.assign(lo, run-lo)
		if run-lo == 1 {
			newSingles++
		}
		lo = run
	}
	return newSingles
}

// heapSortGroup is the worst-case-safe fallback used once a group's
// recursion budget is exhausted: heap sort guarantees O(n log n)
// regardless of how the pivot choice degenerates on adversarial input.
func (s *sorter) heapSortGroup(p, n int) int32 {
	c := s.c
	heapSortByKey(c, p, n)

	// Snapshot the keys the heap sort ordered by: in sequential mode
	// assign writes isa in place, which can change the keys of members
	// not yet grouped and split an equal run out of order.
	keys := make([]uint32, n)
	for i := range keys {
		keys[i] = lowKey(c.k(p + i))
	}
	end := p + n
	var newSingles int32
	for lo := p; lo < end; {
		v := keys[lo-p]
		hi := lo + 1
		for hi < end && keys[hi-p] == v {
			hi++
		}
		c.assign(lo, hi-lo)
		if hi-lo == 1 {
			newSingles++
		}
		lo = hi
	}
	return newSingles
}

// heapSortByKey sorts c.sa[p:p+n] ascending by lowKey(c.k(.)) in place
// using a binary heap, so no extra allocation is needed for the
// fallback path.
func heapSortByKey(c *core, p, n int) {
	less := func(i, j int) bool { return lowKey(c.k(p+i)) < lowKey(c.k(p+j)) }
	swap := func(i, j int) { c.swap(p+i, p+j) }

	down := func(i, limit int) {
		for {
			left := 2*i + 1
			if left >= limit {
				break
			}
			largest := left
			if right := left + 1; right < limit && less(left, right) {
				largest = right
			}
			if less(largest, i) {
				break
			}
			swap(i, largest)
			i = largest
		}
	}

	for i := n/2 - 1; i >= 0; i-- {
		down(i, n)
	}
	for i := n - 1; i > 0; i-- {
		swap(0, i)
		down(0, i)
	}
}

// choosePivot implements Bentley-McIlroy's pseudomedian selection:
// the middle element for small ranges, median-of-three above 7
// elements, median-of-nine (three medians-of-three) above 40.
func (s *sorter) choosePivot(p, n int) uint32 {
	c := s.c
	b := p + n/2
	if n > 7 {
		a := p
		last := p + n - 1
		if n > 40 {
			step := n / 8
			a = s.med3(a, a+step, a+2*step)
			b = s.med3(b-step, b, b+step)
			last = s.med3(last-2*step, last-step, last)
		}
		b = s.med3(a, b, last)
	}
	return lowKey(c.k(b))
}

// med3 returns whichever of a, b, c holds the median of their low-key
// values.
func (s *sorter) med3(a, b, cIdx int) int {
	c := s.c
	ka, kb, kc := lowKey(c.k(a)), lowKey(c.k(b)), lowKey(c.k(cIdx))
	if ka < kb {
		if kb < kc {
			return b
		}
		if ka < kc {
			return cIdx
		}
		return a
	}
	if kb > kc {
		return b
	}
	if ka < kc {
		return a
	}
	return cIdx
}
