// Package playback implements the two-phase flashcard timer. Each card is
// shown word-only, then word and translation, then playback moves on to
// the next card, wrapping around forever.
package playback

import (
	"sync"
	"time"
)

// MinPhaseDuration is the shortest phase; zero display times would
// otherwise spin through the cards.
const MinPhaseDuration = 20 * time.Millisecond

// Phase is one of the two timed sub-states of a card
type Phase string

const (
	PhaseWord Phase = "word"
	PhaseBoth Phase = "both"
)

// State is a snapshot of the scheduler
type State struct {
	Index   int
	Phase   Phase
	Total   int
	Running bool

	// Wrapped is set on the transition from the last card back to the first
	Wrapped bool

	PhaseStarted  time.Time
	PhaseDuration time.Duration

	// Seq increases with every transition; listeners may receive
	// snapshots out of order and should drop stale ones
	Seq uint64
}

// Timings returns the current phase durations. It is called when a phase
// begins, so changes never affect a phase that is already running.
type Timings func() (word, both time.Duration)

// Scheduler drives playback over a sequence of Total cards
type Scheduler struct {
	mu        sync.Mutex
	clock     Clock
	timings   Timings
	state     State
	gen       uint64
	timer     Timer
	listeners []func(State)
}

// NewScheduler creates a stopped scheduler. A nil clock uses RealClock.
func NewScheduler(clock Clock, timings Timings) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		clock:   clock,
		timings: timings,
	}
}

// OnChange registers fn to receive the state after every transition.
// fn runs outside the scheduler lock.
func (s *Scheduler) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start cancels any pending timer and begins playback of total cards at
// index 0 in the word phase. total <= 0 leaves the scheduler stopped.
func (s *Scheduler) Start(total int) {
	s.mu.Lock()
	s.cancelLocked()

	if total <= 0 {
		s.state = State{Seq: s.gen}
	} else {
		s.state = State{Index: 0, Phase: PhaseWord, Total: total, Running: true}
		s.armLocked()
	}

	s.notifyUnlock()
}

// Stop cancels the pending timer. The index is kept.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.state.Running && s.timer == nil {
		s.mu.Unlock()
		return
	}

	s.cancelLocked()
	s.state.Running = false
	s.state.Wrapped = false
	s.state.Seq = s.gen

	s.notifyUnlock()
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.state.Running {
		// Superseded by Start or Stop
		s.mu.Unlock()
		return
	}
	s.timer = nil

	s.state.Wrapped = false
	if s.state.Phase == PhaseWord {
		s.state.Phase = PhaseBoth
	} else {
		s.state.Index++
		if s.state.Index >= s.state.Total {
			s.state.Index = 0
			s.state.Wrapped = true
		}
		s.state.Phase = PhaseWord
	}
	s.armLocked()

	s.notifyUnlock()
}

// armLocked starts the timer for the current phase
func (s *Scheduler) armLocked() {
	var word, both time.Duration
	if s.timings != nil {
		word, both = s.timings()
	}

	d := word
	if s.state.Phase == PhaseBoth {
		d = both
	}
	if d < MinPhaseDuration {
		d = MinPhaseDuration
	}

	s.gen++
	gen := s.gen
	s.state.Seq = gen
	s.state.PhaseStarted = s.clock.Now()
	s.state.PhaseDuration = d
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// notifyUnlock releases the lock and calls the listeners
func (s *Scheduler) notifyUnlock() {
	state := s.state
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
