package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"archup/internal/runner"
	"archup/internal/util"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const pacmanLogLines = 50

// execCommand is a variable to allow mocking of exec.Command in tests
var execCommand = exec.Command

// Snapshot is the environment captured at failure time for post-mortem
// analysis.
type Snapshot struct {
	Memory    string   `yaml:"memory"`
	Disks     string   `yaml:"disks"`
	Mounts    string   `yaml:"mounts"`
	PacmanLog []string `yaml:"pacman_log,omitempty"`
}

// Diagnostic is the record persisted when a run aborts.
type Diagnostic struct {
	RunID      string    `yaml:"run_id"`
	Timestamp  time.Time `yaml:"timestamp"`
	FailedStep int       `yaml:"failed_step"`
	StepName   string    `yaml:"step_name"`
	Error      string    `yaml:"error"`
	ExitCode   int       `yaml:"exit_code"`
	HeldAtFail []string  `yaml:"held_resources,omitempty"`
	Snapshot   Snapshot  `yaml:"snapshot"`
}

// Capture assembles a diagnostic record for a failed step. Collection
// is best-effort: a probe that fails leaves its field empty rather than
// failing the capture, since the process is already aborting.
func Capture(stepErr *StepError, st *State, pacmanLog string) *Diagnostic {
	d := &Diagnostic{
		RunID:      uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		FailedStep: stepErr.Ordinal,
		StepName:   stepErr.Name,
		Error:      stepErr.Err.Error(),
		ExitCode:   stepErr.ExitCode,
	}
	for _, r := range st.Held() {
		d.HeldAtFail = append(d.HeldAtFail, fmt.Sprintf("%s %s", r.Kind, r.Path))
	}
	d.Snapshot.Memory = probe("free", "-h")
	d.Snapshot.Disks = probe("lsblk", "-o", "NAME,SIZE,TYPE,FSTYPE,MOUNTPOINT")
	if data, err := os.ReadFile("/proc/mounts"); err == nil {
		d.Snapshot.Mounts = string(data)
	}
	d.Snapshot.PacmanLog = util.TailLines(pacmanLog, pacmanLogLines)
	return d
}

// Persist writes the record to dir, falling back to the OS temp
// directory when dir is unreachable (the target filesystem may already
// be unmounted). Returns the path actually written.
func (d *Diagnostic) Persist(dir string) (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagnostic record: %w", err)
	}

	name := fmt.Sprintf("%s-failure-%s.yaml", d.Timestamp.Format("20060102-150405"), d.RunID[:8])

	if err := os.MkdirAll(dir, 0755); err == nil {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err == nil {
			return path, nil
		}
	}

	// Fall back to an always-available location.
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write diagnostic record: %w", err)
	}
	return path, nil
}

func probe(name string, args ...string) string {
	out, err := runner.Output(execCommand(name, args...))
	if err != nil {
		return ""
	}
	return out
}
