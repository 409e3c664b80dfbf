// Package services wraps systemctl for the running system.
package services

import (
	"os/exec"

	"archup/internal/runner"
)

// execCommand is a variable to allow mocking of exec.Command in tests
var execCommand = exec.Command

// Enable enables systemd units on the running system.
var Enable = func(units []string) error {
	if len(units) == 0 {
		return nil
	}
	args := append([]string{"enable"}, units...)
	return runner.Run(execCommand("systemctl", args...))
}

// IsEnabled reports whether a unit is enabled. Read-only.
var IsEnabled = func(unit string) (bool, error) {
	cmd := execCommand("systemctl", "is-enabled", "--quiet", unit)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
