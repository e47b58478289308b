package moonphase

import (
	"context"
	"sync"
)

// Scrubber renders phases for an interactive control such as an age slider.
// Inputs that arrive while a render is in flight replace each other, so only
// the newest one is rendered next; stale inputs are dropped, never queued.
type Scrubber struct {
	r *Renderer

	mu        sync.Mutex
	pending   *PhaseInput
	submitted uint64
	latest    Result
	latestSeq uint64

	wake     chan struct{}
	rendered chan struct{}
}

// NewScrubber returns a Scrubber rendering with r. Call Run to start it.
func NewScrubber(r *Renderer) *Scrubber {
	return &Scrubber{
		r:        r,
		wake:     make(chan struct{}, 1),
		rendered: make(chan struct{}, 1),
	}
}

// Submit replaces any pending input with in.
func (s *Scrubber) Submit(in PhaseInput) {
	s.mu.Lock()
	s.pending = &in
	s.submitted++
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run renders pending inputs until ctx is done.
func (s *Scrubber) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		s.mu.Lock()
		in, seq := s.pending, s.submitted
		s.pending = nil
		s.mu.Unlock()
		if in == nil {
			continue
		}

		res := s.r.Render(ctx, *in)

		s.mu.Lock()
		s.latest, s.latestSeq = res, seq
		s.mu.Unlock()

		select {
		case s.rendered <- struct{}{}:
		default:
		}
	}
}

// Latest returns the most recently finished frame, if any.
func (s *Scrubber) Latest() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.latestSeq > 0
}

// Wait blocks until the newest submitted input has been rendered and returns
// its frame. It supports a single waiter.
func (s *Scrubber) Wait(ctx context.Context) (Result, error) {
	for {
		s.mu.Lock()
		res, done := s.latest, s.latestSeq > 0 && s.latestSeq == s.submitted
		s.mu.Unlock()
		if done {
			return res, nil
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-s.rendered:
		}
	}
}
