// Package pacman wraps pacstrap and the pacman database queries the
// installer uses to verify package state independently of installer
// exit codes.
package pacman

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"archup/internal/logwatch"
	"archup/internal/runner"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// execCommand is a variable to allow mocking of exec.Command in tests
var execCommand = exec.Command

// Pacstrap bootstraps the base system into root. The call is quiet
// under a spinner; progress is surfaced by following the target's
// pacman log instead of pacstrap's own chatty output.
var Pacstrap = func(root string, pkgs []string) error {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Installing %d packages into %s (this can take a while)...", len(pkgs), root)
	s.Start()
	defer s.Stop()

	stop := make(chan struct{})
	go logwatch.Follow(filepath.Join(root, "var/log/pacman.log"), stop)
	defer close(stop)

	args := append([]string{"-K", root}, pkgs...)
	if err := runner.Run(execCommand("pacstrap", args...)); err != nil {
		s.FinalMSG = color.RedString("✖ Base system installation failed.\n")
		return err
	}
	s.FinalMSG = color.GreenString("✔ Base system installed.\n")
	return nil
}

// Install installs packages on the running system with output streamed
// to the terminal.
var Install = func(pkgs []string) error {
	args := append([]string{"-S", "--noconfirm", "--needed"}, pkgs...)
	return runner.Stream(execCommand("pacman", args...))
}

// Installed queries the pacman database under root for a package. This
// is the verification side-channel: the installer's exit code alone is
// not trusted for correctness-sensitive packages.
var Installed = func(root, pkg string) (bool, error) {
	cmd := execCommand("pacman", "-Q", "--root", root, pkg)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Genfstab generates the target's fstab from the current mount state.
var Genfstab = func(root string) error {
	out, err := runner.Output(execCommand("genfstab", "-U", root))
	if err != nil {
		return err
	}
	path := filepath.Join(root, "etc/fstab")
	return os.WriteFile(path, []byte(out+"\n"), 0644)
}
