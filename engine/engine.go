package engine

import (
	"context"
	"math"
)

// jobsMin and jobsMax bound the worker count, unchanged from the
// original tool's JobsMin/JobsMax constants in sup.hpp.
const (
	jobsMin = 1
	jobsMax = 64
)

// Option configures an [Engine] at construction, the idiomatic Go
// replacement for the original tool's constructor argument list and
// `err log_sink` parameter.
type Option func(*Engine)

// WithLogger installs a [Logger] the engine reports progress (initial
// bucketing, doubling completion, LCP completion) and validation
// results through; it logs no per-round lines. The default is silent.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Stats reports progress and shape information gathered while
// building the SA and LCP arrays, the structured replacement for the
// original tool's per-round stderr line ("doubling %x with %d
// singleton groups (%.1f%% complete)").
type Stats struct {
	Length       int
	Jobs         int
	Rounds       int
	FinalH       int
	AlphabetSize int
}

// Engine owns one text's SA/ISA state and, once requested, its LCP
// array. It is not safe for concurrent use by multiple goroutines
// calling its methods; the concurrency the engine exploits is
// entirely internal to BuildSA/BuildLCP.
type Engine struct {
	c    core
	jobs int
	log  Logger

	saBuilt  bool
	lcpBuilt bool
	lcp      []int32

	stats Stats
}

// New validates text's length and jobs and allocates the rank-store
// arrays. text must be non-empty and fit in 31 bits of length (the
// engine packs positions into int32 slots). It must also contain
// exactly one sentinel (0x00) byte, conventionally at the final
// position; New does not check that, BuildSA does.
func New(text []byte, jobs int, opts ...Option) (*Engine, error) {
	if len(text) == 0 {
		return nil, errInputDomain("New", "text must be non-empty (missing sentinel)")
	}
	if len(text) > math.MaxInt32 {
		return nil, errInputDomain("New", "text length %d exceeds %d", len(text), math.MaxInt32)
	}
	if jobs < jobsMin || jobs > jobsMax {
		return nil, errInputDomain("New", "jobs=%d out of range [%d,%d]", jobs, jobsMin, jobsMax)
	}

	n := len(text)
	sa, err := allocInt32("New", n)
	if err != nil {
		return nil, err
	}
	isa, err := allocInt32("New", n)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		c: core{
			text: text,
			sa:   sa,
			isa:  isa,
		},
		jobs: jobs,
		log:  nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// allocInt32 allocates an n-element int32 slice, converting the
// runtime's out-of-memory panic for SA, ISA, ISA', or LCP-sized
// allocations into a reportable [KindResource] error rather than
// letting the process crash outright.
func allocInt32(op string, n int) (out []int32, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errResource(op, "allocating %d int32 words: %v", n, r)
		}
	}()
	return make([]int32, n), nil
}

// BuildSA runs the initial bucketer and doubling driver to completion,
// then inverts ISA back into a fully realized SA. Calling it again on
// an already-built engine is a no-op.
func (e *Engine) BuildSA(ctx context.Context) error {
	if e.saBuilt {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := initBucket(&e.c, e.jobs)
	if err != nil {
		return err
	}
	e.log.Debugf("initial bucketing: %d singleton groups, %d distinct bytes", res.singles, res.alphaPresent)
	e.stats.AlphabetSize = res.alphaPresent

	dr, err := runDoubling(&e.c, e.jobs)
	if err != nil {
		return err
	}
	e.log.Infof("doubling complete: %d rounds, final h=%d", dr.rounds, dr.h)
	e.stats.Rounds = dr.rounds
	e.stats.FinalH = dr.h

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := invertSA(&e.c, e.jobs); err != nil {
		return err
	}

	e.stats.Length = len(e.c.text)
	e.stats.Jobs = e.jobs
	e.saBuilt = true
	return nil
}

// BuildLCP computes the LCP array via the PLCP construction. It
// requires BuildSA to have completed.
func (e *Engine) BuildLCP(ctx context.Context) error {
	if !e.saBuilt {
		return errProtocol("BuildLCP", "suffix array not complete")
	}
	if e.lcpBuilt {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lcp, err := buildLCP(&e.c, e.jobs)
	if err != nil {
		return err
	}
	e.lcp = lcp
	e.lcpBuilt = true
	e.log.Infof("lcp built")
	return nil
}

// SA returns the completed suffix array, or false if BuildSA has not
// finished.
func (e *Engine) SA() ([]int32, bool) {
	if !e.saBuilt {
		return nil, false
	}
	return e.c.sa, true
}

// LCP returns the completed LCP array, or false if BuildLCP has not
// finished.
func (e *Engine) LCP() ([]int32, bool) {
	if !e.lcpBuilt {
		return nil, false
	}
	return e.lcp, true
}

// Validate runs the C8 checks against the completed SA (and LCP, if
// built). It requires BuildSA to have completed.
func (e *Engine) Validate() (ValidationReport, error) {
	if !e.saBuilt {
		return ValidationReport{}, errProtocol("Validate", "suffix array not complete")
	}
	var lcp []int32
	if e.lcpBuilt {
		lcp = e.lcp
	}
	report := validate(e.c.text, e.c.sa, lcp)
	e.log.Infof("%s", report)
	return report, nil
}

// Stats returns a snapshot of progress and shape information gathered
// while building SA and LCP.
func (e *Engine) Stats() Stats {
	return e.stats
}
