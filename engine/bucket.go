package engine

// alphabetSize is the size of the byte alphabet the initial bucketer
// counts over. The engine works over raw bytes, so every value in
// [0, alphabetSize) is a legal bucket.
const alphabetSize = 256

// bucketResult carries the outcome of the initial counting sort: the
// number of singleton groups it produced directly, and the alphabet's
// occupied size (informational, surfaced through Stats).
type bucketResult struct {
	singles      int64
	alphaPresent int
}

// initBucket implements C2: a single counting-sort pass over the text
// that seeds sa with byte-bucket order and isa with each byte's group
// key (the last index of its bucket, per the group-id convention of
// assign). Singleton byte buckets are marked sorted immediately, and
// runs of adjacent sorted singles are coalesced into one sorted-run
// record exactly as the doubling scan does, so the first doubling round
// sees the same sorted-run bookkeeping a later round would produce.
//
// Grounded on sortseq.cpp's init (sequential single-threaded counting
// sort) for jobs==1, and sortpar.cpp's init (per-thread partial counts
// merged into one prefix-sum table before a second counting-sort
// pass) for jobs>1.
func initBucket(c *core, jobs int) (bucketResult, error) {
	text := c.text
	n := len(text)

	var count [alphabetSize]int64
	if jobs <= 1 || n < bucketSize {
		for _, b := range text {
			count[b]++
		}
	} else {
		partials := make([][alphabetSize]int64, jobs)
		err := chunkParallel(jobs, n, func(lo, hi int) error {
			pc := &partials[chunkIndex(lo, n, jobs)]
			for _, b := range text[lo:hi] {
				pc[b]++
			}
			return nil
		})
		if err != nil {
			return bucketResult{}, err
		}
		for _, pc := range partials {
			for b, v := range pc {
				count[b] += v
			}
		}
	}

	if count[0] != 1 {
		return bucketResult{}, errInputDomain("initBucket",
			"text must contain exactly one sentinel byte, found %d", count[0])
	}

	var group [alphabetSize]int32
	var start [alphabetSize]int64
	var alphaPresent int
	f := int64(0)
	var singles int64
	for b := 0; b < alphabetSize; b++ {
		cnt := count[b]
		if cnt == 0 {
			start[b] = f
			continue
		}
		alphaPresent++
		g := f + cnt - 1
		start[b] = f
		group[b] = int32(g)
		if cnt == 1 {
			singles++
		}
		f += cnt
	}

	cursor := start
	sa := c.sa
	isa := c.isa
	for i := 0; i < n; i++ {
		b := text[i]
		j := cursor[b]
		cursor[b]++
		sa[j] = int32(i)
		isa[i] = group[b]
		if count[b] == 1 {
			c.setSorted(int(j), 1)
		}
	}

	// Coalesce adjacent singleton buckets into one sorted-run record
	// so the first doubling round's scan over SA skips them in a
	// single stride, the same bookkeeping a later round leaves behind.
	// This is a single pass over SA order, done after the scatter
	// above rather than interleaved with it, because the scatter
	// writes SA slots out of order (by byte value, not by position).
	p := 0
	sl := 0
	for i := 0; i < n; {
		if s := c.getSorted(i); s != 0 {
			i += s
			sl += s
			continue
		}
		if sl > 0 {
			c.setSorted(p, sl)
			sl = 0
		}
		p = i + 1
		i++
	}
	if sl > 0 {
		c.setSorted(p, sl)
	}

	return bucketResult{singles: singles, alphaPresent: alphaPresent}, nil
}

// chunkIndex recovers which of jobs equal-width chunks position lo
// belongs to, matching the splitting chunkParallel uses.
func chunkIndex(lo, n, jobs int) int {
	step := n / jobs
	if step == 0 {
		step = 1
	}
	idx := lo / step
	if idx >= jobs {
		idx = jobs - 1
	}
	return idx
}
