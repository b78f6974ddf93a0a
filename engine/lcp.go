package engine

import "math/bits"

// buildLCP implements C7: it derives the LCP array from a completed
// SA/ISA pair via the permuted-LCP (PLCP) construction, the only
// complete LCP path carried forward from the original tool (its
// direct strncmp-based builder was left as commented-out pseudocode
// in every revision that had one).
//
// ISA is reused as the PLCP scratch buffer once SA is final, since
// its rank values are no longer read after inversion; the freshly
// allocated LCP array doubles as the Φ scratch buffer before the
// final permute overwrites it with real LCP values.
//
// The matching primitive (lcplen/matchLen) is ported from the
// teacher's suffix/lcp.go, including its 8-byte-at-a-time XOR trick
// for counting a shared prefix without a byte-by-byte loop.
func buildLCP(c *core, jobs int) ([]int32, error) {
	n := len(c.text)
	sa := c.sa
	lcp, err := allocInt32("buildLCP", n)
	if err != nil {
		return nil, err
	}
	plcp := c.isa

	if n == 0 {
		return lcp, nil
	}

	if err := chunkParallel(jobs, n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if i == 0 {
				continue
			}
			lcp[sa[i]] = sa[i-1]
		}
		return nil
	}); err != nil {
		return nil, err
	}

	firstSuffix := int(sa[0])
	text := c.text
	l := 0
	for i := 0; i < n; i++ {
		if i == firstSuffix {
			plcp[i] = 0
			l = 0
			continue
		}
		j := int(lcp[i])
		l += lcplen(text, i+l, j+l)
		plcp[i] = int32(l)
		if l > 0 {
			l--
		}
	}

	for i := 1; i < n; i++ {
		ai, bi := int(sa[i]), int(sa[i-1])
		differs := ai == 0 || bi == 0 || text[ai-1] != text[bi-1]
		if !differs {
			continue
		}
		if m := int32(lcplen(text, bi, ai)); m > plcp[ai] {
			plcp[ai] = m
		}
	}

	for i := 1; i < n; i++ {
		if v := plcp[i-1] - 1; v > plcp[i] {
			plcp[i] = v
		}
	}

	if err := chunkParallel(jobs, n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			lcp[i] = plcp[sa[i]]
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return lcp, nil
}

// lcplen counts the matching bytes of text starting at a and b.
func lcplen(text []byte, a, b int) int {
	return matchLen(text[a:], text[b:])
}

// matchLen computes the length of the common prefix between p and q.
func matchLen(p, q []byte) int {
	if len(q) > len(p) {
		p, q = q, p
	}
	n := 0
	for len(q) >= 8 {
		x := getLE64(p) ^ getLE64(q)
		k := bits.TrailingZeros64(x) >> 3
		n += k
		if k < 8 {
			return n
		}
		q = q[8:]
		p = p[8:]
	}
	if len(q) >= 4 {
		x := getLE32(p) ^ getLE32(q)
		k := bits.TrailingZeros32(x) >> 3
		n += k
		if k < 4 {
			return n
		}
		q = q[4:]
		p = p[4:]
	}
	for i, b := range q {
		if p[i] != b {
			break
		}
		n++
	}
	return n
}

func getLE64(p []byte) uint64 {
	_ = p[7]
	return uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16 |
		uint64(p[3])<<24 | uint64(p[4])<<32 | uint64(p[5])<<40 |
		uint64(p[6])<<48 | uint64(p[7])<<56
}

func getLE32(p []byte) uint32 {
	_ = p[3]
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}
