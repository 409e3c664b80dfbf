package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Run executes a command and returns an error with the combined output if it fails.
func Run(cmd *exec.Cmd) error {
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command failed: %s: %w\n%s", cmd.String(), err, string(output))
	}
	return nil
}

// Output executes a command and returns its standard output, trimmed.
func Output(cmd *exec.Cmd) (string, error) {
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("command failed: %s: %w\n%s", cmd.String(), err, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("command failed: %s: %w", cmd.String(), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RunWithInput executes a command with the given string fed to its stdin.
func RunWithInput(cmd *exec.Cmd, input string) error {
	cmd.Stdin = strings.NewReader(input)
	return Run(cmd)
}

// Stream executes a command with its output connected to the process
// stdout/stderr. Used for long external calls whose progress the
// operator should see live.
func Stream(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command failed: %s: %w", cmd.String(), err)
	}
	return nil
}

// ExitCode extracts the exit code of a failed external command from an
// error chain. Returns 1 when the error did not come from a process exit.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
