// Package jobs provides the shell's job table.
//
// A Table is a fixed-capacity set of Job slots addressable by process id or
// job id. It has no locking of its own. A Registry owns a Table and is the
// only way the shell touches it: the main flow enters critical sections with
// Do, the child reaper drains status changes with Drain and only sees the
// narrow Mutator interface.
package jobs
