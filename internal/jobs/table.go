package jobs

import "fmt"

// DefaultCapacity is the number of job slots used when none is configured.
const DefaultCapacity = 16

// Job is one process group launched by the shell. A Job with a PID of 0 is an
// empty slot.
type Job struct {
	PID     int
	JID     int
	State   State
	Cmdline string
}

// Table is a fixed-capacity job list. It is not safe for concurrent use; see
// Registry.
type Table struct {
	slots   []Job
	nextJID int
}

// NewTable creates an empty Table with the given number of slots. A capacity
// below 1 falls back to DefaultCapacity.
func NewTable(capacity int) *Table {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &Table{
		slots:   make([]Job, capacity),
		nextJID: 1,
	}
}

// Insert adds a job for pid in the first free slot and returns its job id.
// It fails with ErrTableFull when every slot is taken.
func (t *Table) Insert(pid int, state State, cmdline string) (int, error) {
	if pid < 1 {
		return 0, InvalidPIDError{pid}
	}

	if !state.valid() {
		return 0, InvalidStateError{state}
	}

	if _, ok := t.index(pid); ok {
		return 0, fmt.Errorf("pid %d: %w", pid, ErrJobExists)
	}

	if state == Foreground {
		if _, ok := t.ForegroundPID(); ok {
			return 0, ErrForegroundBusy
		}
	}

	for i := range t.slots {
		if t.slots[i].PID != 0 {
			continue
		}

		jid := t.allocJID()
		t.slots[i] = Job{
			PID:     pid,
			JID:     jid,
			State:   state,
			Cmdline: cmdline,
		}

		return jid, nil
	}

	return 0, ErrTableFull
}

// Delete clears the slot holding pid. It reports false if no job has that pid,
// which happens when a job is reaped twice.
func (t *Table) Delete(pid int) bool {
	i, ok := t.index(pid)
	if !ok {
		return false
	}

	t.slots[i] = Job{}
	t.nextJID = t.maxJID() + 1

	return true
}

// SetState moves the job with pid into state.
func (t *Table) SetState(pid int, state State) error {
	if !state.valid() {
		return InvalidStateError{state}
	}

	i, ok := t.index(pid)
	if !ok {
		return fmt.Errorf("pid %d: %w", pid, ErrJobNotFound)
	}

	if state == Foreground {
		if fg, ok := t.ForegroundPID(); ok && fg != pid {
			return ErrForegroundBusy
		}
	}

	t.slots[i].State = state

	return nil
}

// FindByPID returns the job whose process group leader is pid.
func (t *Table) FindByPID(pid int) (Job, bool) {
	i, ok := t.index(pid)
	if !ok {
		return Job{}, false
	}

	return t.slots[i], true
}

// FindByJID returns the job with job id jid.
func (t *Table) FindByJID(jid int) (Job, bool) {
	if jid < 1 {
		return Job{}, false
	}

	for _, j := range t.slots {
		if j.PID != 0 && j.JID == jid {
			return j, true
		}
	}

	return Job{}, false
}

// ForegroundPID returns the pid of the foreground job, if there is one.
func (t *Table) ForegroundPID() (int, bool) {
	for _, j := range t.slots {
		if j.PID != 0 && j.State == Foreground {
			return j.PID, true
		}
	}

	return 0, false
}

// List returns the live jobs in slot order.
func (t *Table) List() []Job {
	jobs := make([]Job, 0, len(t.slots))
	for _, j := range t.slots {
		if j.PID != 0 {
			jobs = append(jobs, j)
		}
	}

	return jobs
}

// Len returns the number of live jobs.
func (t *Table) Len() int {
	n := 0
	for _, j := range t.slots {
		if j.PID != 0 {
			n++
		}
	}

	return n
}

func (t *Table) Cap() int {
	return len(t.slots)
}

func (t *Table) Full() bool {
	return t.Len() == len(t.slots)
}

func (t *Table) index(pid int) (int, bool) {
	if pid < 1 {
		return 0, false
	}

	for i, j := range t.slots {
		if j.PID == pid {
			return i, true
		}
	}

	return 0, false
}

func (t *Table) maxJID() int {
	highest := 0
	for _, j := range t.slots {
		if j.PID != 0 && j.JID > highest {
			highest = j.JID
		}
	}

	return highest
}

// allocJID hands out nextJID, skipping ids still held by live jobs after the
// allocator has wrapped. Callers must have found a free slot first, which
// guarantees a free id in [1, Cap()].
func (t *Table) allocJID() int {
	jid := t.nextJID
	for t.jidInUse(jid) {
		jid = t.advance(jid)
	}

	t.nextJID = t.advance(jid)

	return jid
}

func (t *Table) advance(jid int) int {
	jid++
	if jid > len(t.slots) {
		return 1
	}

	return jid
}

func (t *Table) jidInUse(jid int) bool {
	_, ok := t.FindByJID(jid)
	return ok
}
