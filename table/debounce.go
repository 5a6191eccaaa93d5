package table

import (
	"sync"
	"time"
)

// SearchQuietPeriod is how long the search draft must stay unchanged
// before it is committed.
const SearchQuietPeriod = 500 * time.Millisecond

// Debouncer is a cancellable one-shot timer. Each Trigger cancels the
// pending call, if any, and schedules fn after the delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger (re)starts the timer. It is a no-op after Stop.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that already fired cannot be stopped; the generation
		// check drops callbacks superseded by a later Trigger or Cancel.
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending call and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call and disables the Debouncer for good.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// SearchState pairs the in-progress draft with the last committed term.
type SearchState struct {
	Committed string
	Draft     string
}

// SearchDebouncer holds the locally edited search string and commits it
// through the caller-supplied setter once edits go quiet.
type SearchDebouncer struct {
	mu     sync.Mutex
	draft  string
	commit func(string)
	timer  *Debouncer
}

// NewSearchDebouncer starts with draft set to initial.
func NewSearchDebouncer(initial string, quiet time.Duration, commit func(string)) *SearchDebouncer {
	return &SearchDebouncer{
		draft:  initial,
		commit: commit,
		timer:  NewDebouncer(quiet),
	}
}

// Edit replaces the draft and restarts the quiet period. The commit
// reads the draft when it fires, so it always sees the latest edit.
func (s *SearchDebouncer) Edit(draft string) {
	s.mu.Lock()
	s.draft = draft
	s.mu.Unlock()
	s.timer.Trigger(func() { s.commit(s.Draft()) })
}

// Flush commits the current draft now, cancelling any pending commit.
func (s *SearchDebouncer) Flush() {
	s.timer.Cancel()
	s.commit(s.Draft())
}

// Draft returns the in-progress search string.
func (s *SearchDebouncer) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Set replaces the draft without scheduling a commit.
func (s *SearchDebouncer) Set(draft string) {
	s.timer.Cancel()
	s.mu.Lock()
	s.draft = draft
	s.mu.Unlock()
}

// Stop cancels any pending commit. Called on unmount.
func (s *SearchDebouncer) Stop() { s.timer.Stop() }
