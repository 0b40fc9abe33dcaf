package jobs

import "sync"

// Mutator is the part of a Table the child reaper may use.
type Mutator interface {
	FindByPID(pid int) (Job, bool)
	Delete(pid int) bool
	SetState(pid int, state State) error
}

var _ Mutator = (*Table)(nil)

// Registry owns a Table and serializes every access to it. Holding the
// Registry is what a signal mask is to a C shell: while the main flow is
// inside Do the reaper cannot drain child statuses, so a process that exits
// straight after it is started is only reaped once its job is registered.
type Registry struct {
	table   *Table
	changed chan struct{}

	mu sync.Mutex
}

// NewRegistry creates a Registry around an empty Table with capacity slots.
func NewRegistry(capacity int) *Registry {
	return &Registry{
		table:   NewTable(capacity),
		changed: make(chan struct{}, 1),
	}
}

// Do runs fn as a critical section of the main flow.
func (r *Registry) Do(fn func(t *Table)) {
	r.mu.Lock()
	fn(r.table)
	r.mu.Unlock()

	r.notify()
}

// Drain runs fn as the reaper's critical section.
func (r *Registry) Drain(fn func(m Mutator)) {
	r.mu.Lock()
	fn(r.table)
	r.mu.Unlock()

	r.notify()
}

// View runs fn with the Table without signalling a change. fn must not modify
// the Table.
func (r *Registry) View(fn func(t *Table)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.table)
}

// Changed returns a channel that receives after a Do or Drain section has
// finished. Notifications are coalesced, so a receiver must re-read the Table
// rather than count them.
func (r *Registry) Changed() <-chan struct{} {
	return r.changed
}

// List returns a snapshot of the live jobs.
func (r *Registry) List() []Job {
	var jobs []Job
	r.View(func(t *Table) {
		jobs = t.List()
	})

	return jobs
}

// ForegroundPID returns the pid of the current foreground job, if any.
func (r *Registry) ForegroundPID() (int, bool) {
	var (
		pid int
		ok  bool
	)
	r.View(func(t *Table) {
		pid, ok = t.ForegroundPID()
	})

	return pid, ok
}

// IsForeground reports whether pid is a live job in the Foreground state.
func (r *Registry) IsForeground(pid int) bool {
	var fg bool
	r.View(func(t *Table) {
		j, ok := t.FindByPID(pid)
		fg = ok && j.State == Foreground
	})

	return fg
}

func (r *Registry) notify() {
	select {
	case r.changed <- struct{}{}:
	default:
	}
}
