// Package snapshot orchestrates Timeshift for system backup and
// restore.
package snapshot

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"archup/internal/runner"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// execCommand is a variable to allow mocking of exec.Command in tests
var execCommand = exec.Command

// Snap is one Timeshift snapshot as reported by --list.
type Snap struct {
	Name    string
	Tags    string
	Comment string
}

// Create takes a new snapshot with a comment.
var Create = func(comment string) error {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = " Creating Timeshift snapshot..."
	s.Start()
	defer s.Stop()

	err := runner.Run(execCommand("timeshift", "--create", "--comments", comment, "--scripted"))
	if err != nil {
		s.FinalMSG = color.RedString("✖ Snapshot creation failed.\n")
		return err
	}
	s.FinalMSG = color.GreenString("✔ Snapshot created.\n")
	return nil
}

// List returns the existing snapshots.
var List = func() ([]Snap, error) {
	out, err := runner.Output(execCommand("timeshift", "--list"))
	if err != nil {
		return nil, err
	}
	return parseList(out), nil
}

// Restore rolls the system back to a named snapshot. The destructive
// confirmation happens at the command layer, so the call here is
// scripted.
var Restore = func(name string) error {
	return runner.Run(execCommand("timeshift", "--restore", "--snapshot", name, "--scripted"))
}

// parseList extracts snapshot rows from timeshift --list output. Rows
// look like:
//
//	Num     Name                 Tags  Description
//	------------------------------------------------------------
//	0    >  2024-05-01_10-00-01  O     before desktop install
func parseList(out string) []Snap {
	var snaps []Snap
	inTable := false
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "---") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Drop the numeric index and the optional ">" marker.
		if fields[1] == ">" {
			fields = fields[2:]
		} else {
			fields = fields[1:]
		}
		if len(fields) == 0 {
			continue
		}
		snap := Snap{Name: fields[0]}
		if len(fields) > 1 {
			snap.Tags = fields[1]
		}
		if len(fields) > 2 {
			snap.Comment = strings.Join(fields[2:], " ")
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// Installed reports whether timeshift is available on this system.
var Installed = func() bool {
	_, err := exec.LookPath("timeshift")
	return err == nil
}

// Describe returns a printable one-liner for a snapshot.
func (s Snap) Describe() string {
	if s.Comment == "" {
		return s.Name
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.Comment)
}
