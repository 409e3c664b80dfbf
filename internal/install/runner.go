package install

import (
	"fmt"

	"archup/internal/runner"

	"github.com/fatih/color"
)

// StepError reports the first failed step of a run: its ordinal, name,
// the underlying error and the exit code of the external tool when one
// is known. It is the only error shape that crosses the runner boundary
// once execution has started.
type StepError struct {
	Ordinal  int
	Name     string
	Err      error
	ExitCode int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Ordinal, e.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Runner executes a step table against a State. Steps run strictly
// sequentially; there is no retry and no partial continuation past a
// failure.
type Runner struct {
	steps  []Step
	state  *State
	status Status

	// Progress is invoked on every step status change. The default
	// prints colored terminal lines; tests replace it.
	Progress func(ordinal int, name string, status Status)
}

func NewRunner(steps []Step, st *State) *Runner {
	st.Total = len(steps)
	return &Runner{
		steps:    steps,
		state:    st,
		status:   StatusPending,
		Progress: printProgress,
	}
}

// Status returns the run's current overall status.
func (r *Runner) Status() Status {
	return r.status
}

// Steps returns the immutable step table.
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executes steps start..N in order, stopping at the first failure.
// A start outside [1,N] is a configuration error reported before any
// step runs. No step is skipped within the range and no step executes
// twice. On failure the returned error is a *StepError; cleanup is the
// caller's decision, not the runner's.
func (r *Runner) Run(start int) error {
	n := len(r.steps)
	if start < 1 || start > n {
		return fmt.Errorf("resume step %d out of range: must be between 1 and %d", start, n)
	}

	for i := start; i <= n; i++ {
		step := r.steps[i-1]
		r.state.Current = i

		r.setStatus(i, step.Name, StatusRunning)
		if err := r.runAction(step); err != nil {
			r.setStatus(i, step.Name, StatusFailed)
			r.status = StatusAborted
			return &StepError{Ordinal: i, Name: step.Name, Err: err, ExitCode: runner.ExitCode(err)}
		}

		if step.Verify != nil {
			r.setStatus(i, step.Name, StatusVerifying)
			ok, err := step.Verify(r.state)
			if err == nil && !ok {
				err = fmt.Errorf("postcondition not met: the system is not in the state %q should have left it in", step.Name)
			}
			if err != nil {
				r.setStatus(i, step.Name, StatusFailed)
				r.status = StatusAborted
				return &StepError{Ordinal: i, Name: step.Name, Err: err, ExitCode: runner.ExitCode(err)}
			}
		}

		r.setStatus(i, step.Name, StatusDone)
	}

	r.status = StatusCompleted
	return nil
}

// runAction confines a panicking action to a step failure so that an
// unexpected fault aborts the run through the same path as a tool error.
func (r *Runner) runAction(step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("unexpected fault: %v", p)
		}
	}()
	return step.Action(r.state)
}

func (r *Runner) setStatus(ordinal int, name string, st Status) {
	if r.Progress != nil {
		r.Progress(ordinal, name, st)
	}
}

func printProgress(ordinal int, name string, st Status) {
	switch st {
	case StatusRunning:
		color.Cyan("i Step %d: %s", ordinal, name)
	case StatusDone:
		color.Green("✔ Step %d: %s", ordinal, name)
	case StatusFailed:
		color.Red("✖ Step %d: %s", ordinal, name)
	}
}
