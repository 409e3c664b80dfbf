// Package install implements the step-sequenced installation engine:
// an ordered table of named steps executed forward-only, exactly once
// each, with optional postcondition verification, an undo ledger of
// acquired system resources, and best-effort reverse-order cleanup on
// the first failure.
package install

// Action performs one unit of installation work. It may have
// irreversible external effects (formatting a disk, writing a
// bootloader); the runner does not sandbox it.
type Action func(st *State) error

// Predicate is an independent, read-only check of a step's claimed
// postcondition. Calling it twice without intervening system change
// must yield the same answer and must not mutate anything.
type Predicate func(st *State) (bool, error)

// Step is one named unit of installation work. Steps are defined at
// runner construction and immutable afterwards; their ordinal is their
// 1-based position in the table.
type Step struct {
	Name   string
	Action Action
	// Verify confirms the action's postcondition. A nil predicate
	// means the action's own exit status is trusted. Many external
	// tools report success while leaving the system subtly wrong, so
	// correctness-sensitive steps carry one.
	Verify Predicate
}

// Status is the state of a step, or of the run as a whole.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusVerifying Status = "verifying"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
)

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the status is a final state for a run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted
}
