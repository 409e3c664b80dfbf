// Package chroot is the privileged in-target executor: it runs script
// bodies as if inside the freshly installed (but not yet booted)
// system. The boundary is deliberately coarse: a body either succeeds
// as a whole or the call fails; no partial-success signal crosses it.
package chroot

import (
	"os/exec"
	"strings"

	"archup/internal/runner"
)

// execCommand is a variable to allow mocking of exec.Command in tests
var execCommand = exec.Command

// Exec runs a script body inside the target root. The body is fed over
// stdin with errexit set, so the first failing command fails the whole
// call.
var Exec = func(root, script string) error {
	body := "set -euo pipefail\n" + script
	cmd := execCommand("arch-chroot", root, "/bin/bash", "-s")
	return runner.RunWithInput(cmd, body)
}

// quote wraps s in single quotes for safe embedding in a script body.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
