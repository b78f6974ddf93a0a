package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// bucketSize is the largest group size the task pool still runs inline
// on the calling goroutine; only larger groups go to a pooled
// goroutine, since the cost of a goroutine handoff would
// dwarf the sort itself. Named and sized after the original tool's
// own BucketSize constant (sup.hpp: "static const uint32 BucketSize =
// (1 << 18);"), reused here as chunkParallel's own below-this-skip-
// parallelism cutoff for the same reason.
const bucketSize = 1 << 18

// taskPool runs tqsort groups across a bounded number of goroutines.
// jobs<=1 collapses every sortSwitch call to an inline sort, which is
// how the sequential driver and the sorter's own recursive calls for
// small groups stay allocation-free.
//
// Grounded on the weighted-semaphore-plus-WaitGroup dispatch pattern
// used for bounded concurrent downloads in the rest of the examples
// pack; the suffix-sort-specific routing (sortSwitch deciding inline
// vs pooled by size, and propagating a new singleton count back into
// an atomic total) has no counterpart there and is built for this
// engine.
type taskPool struct {
	jobs int
	sem  *semaphore.Weighted
	wg   sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	newSingles atomic.Int64
	firstErr   atomic.Pointer[error]

	s *sorter
}

func newTaskPool(c *core, jobs int) *taskPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &taskPool{
		jobs:   jobs,
		ctx:    ctx,
		cancel: cancel,
	}
	if jobs > 1 {
		p.sem = semaphore.NewWeighted(int64(jobs))
	}
	p.s = &sorter{c: c, disp: p}
	return p
}

// sortSwitch implements dispatcher. parent is the budget the calling
// tqsort frame was spending from, or nil for a fresh group handed in
// directly by the doubling scan. Staying on the calling goroutine
// (single job, or a group at or below bucketSize) continues
// spending from parent so a deep recursive partition cannot dodge its
// own worst-case bound by appearing "fresh" at every split; crossing
// into a pooled goroutine always starts a new budget scoped to that
// goroutine's own subtree, since budget is not safe to share across
// goroutines without a lock and each subtree's own size is enough to
// bound its own worst case.
func (p *taskPool) sortSwitch(pos, n int, parent *budget) {
	if p.jobs <= 1 || n <= bucketSize {
		b := parent
		if b == nil {
			b = newBudget(n)
		}
		p.runGroup(pos, n, b)
		return
	}
	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		// Context was cancelled by an earlier failure; the group is
		// dropped and accounted for by the sticky error instead.
		return
	}
	p.wg.Add(1)
	b := newBudget(n)
	go func() {
		defer p.sem.Release(1)
		defer p.wg.Done()
		p.runGroup(pos, n, b)
	}()
}

func (p *taskPool) runGroup(pos, n int, b *budget) {
	defer func() {
		if r := recover(); r != nil {
			err := error(errProtocol("sortSwitch", "panic sorting [%d, %d): %v", pos, pos+n, r))
			p.firstErr.CompareAndSwap(nil, &err)
			p.cancel()
		}
	}()
	singles := p.s.tqsort(pos, n, b)
	p.newSingles.Add(int64(singles))
}

// wait blocks until every dispatched group has finished and returns
// the count of newly created singleton groups, or the first error
// raised by a pooled goroutine.
func (p *taskPool) wait() (int64, error) {
	p.wg.Wait()
	if errp := p.firstErr.Load(); errp != nil {
		return p.newSingles.Load(), *errp
	}
	return p.newSingles.Load(), nil
}

// chunkParallel splits [0, n) into up to jobs contiguous chunks and
// runs fn over each chunk concurrently, propagating the first error.
// Used by the chunk-parallel passes (initial byte counting, SA
// inversion, the Φ construction and the PLCP-to-LCP permute) that have
// no group-boundary hazards and so
// can split purely by position.
func chunkParallel(jobs, n int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if jobs <= 1 || n < bucketSize {
		return fn(0, n)
	}

	g := new(errgroup.Group)
	step := n / jobs
	if step == 0 {
		step = 1
	}
	for lo := 0; lo < n; lo += step {
		hi := lo + step
		if hi > n || n-hi < step {
			hi = n
		}
		lo, hi := lo, hi
		g.Go(func() error { return fn(lo, hi) })
		if hi == n {
			break
		}
	}
	return g.Wait()
}
