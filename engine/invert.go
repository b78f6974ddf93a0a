package engine

// invertSA implements C6: it reconstructs the suffix array from a
// completed inverse suffix array. By the time doubling finishes, isa
// holds every suffix's final, unique rank, but sa's slots carry
// sign-bit sorted-run markers instead of suffix indices, so this pass
// rebuilds sa from isa, overwriting those markers.
//
// Grounded on the teacher's InvertSA (suffix/lcp.go), generalized to
// split the scatter across chunks the way the rest of the engine's
// position-indexed passes do.
func invertSA(c *core, jobs int) error {
	isa := c.isa
	sa := c.sa
	n := len(isa)
	return chunkParallel(jobs, n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			sa[isa[i]] = int32(i)
		}
		return nil
	})
}
