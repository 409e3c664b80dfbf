// Package prompt is the interactive surface: disk selection,
// destructive-action confirmation and credential entry.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"archup/internal/runner"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

var (
	// execCommand is a variable to allow mocking of exec.Command in tests
	execCommand = exec.Command

	// stdin is a variable to allow feeding scripted answers in tests
	stdin io.Reader = os.Stdin

	// readPassword is a variable to allow mocking of terminal input in tests
	readPassword = func() ([]byte, error) {
		return term.ReadPassword(int(os.Stdin.Fd()))
	}
)

// Device is one row of the disk-selection table.
type Device struct {
	Path  string
	Size  string
	Model string
}

// ListDisks enumerates whole-disk block devices.
var ListDisks = func() ([]Device, error) {
	out, err := runner.Output(execCommand("lsblk", "-dno", "NAME,SIZE,TYPE,MODEL"))
	if err != nil {
		return nil, err
	}
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[2] != "disk" {
			continue
		}
		d := Device{Path: "/dev/" + fields[0], Size: fields[1]}
		if len(fields) > 3 {
			d.Model = strings.Join(fields[3:], " ")
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// SelectDisk shows the available disks and asks for a choice.
var SelectDisk = func() (string, error) {
	devices, err := ListDisks()
	if err != nil {
		return "", fmt.Errorf("failed to enumerate disks: %w", err)
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no disks found")
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"#", "DEVICE", "SIZE", "MODEL"})
	for i, d := range devices {
		table.Append([]string{strconv.Itoa(i + 1), d.Path, d.Size, d.Model})
	}
	table.Render()

	fmt.Printf("Select target disk [1-%d]: ", len(devices))
	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > len(devices) {
		return "", fmt.Errorf("invalid selection %q", strings.TrimSpace(line))
	}
	return devices[choice-1].Path, nil
}

// ConfirmWipe requires the operator to type the device path back before
// anything irreversible happens to it.
var ConfirmWipe = func(device string) error {
	color.Yellow("! ALL DATA ON %s WILL BE DESTROYED.", device)
	fmt.Printf("Type the device path to confirm: ")
	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) != device {
		return fmt.Errorf("confirmation did not match %s, aborting", device)
	}
	return nil
}

// ConfirmAction asks the operator to type "yes" before proceeding.
var ConfirmAction = func(message string) error {
	color.Yellow("! %s", message)
	fmt.Printf("Type 'yes' to continue: ")
	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) != "yes" {
		return fmt.Errorf("not confirmed, aborting")
	}
	return nil
}

// Password reads a password twice without echo and requires both
// entries to match.
var Password = func(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		first, err := readPassword()
		fmt.Println()
		if err != nil {
			return "", err
		}
		if len(first) == 0 {
			color.Yellow("! Password must not be empty.")
			continue
		}
		fmt.Printf("%s (again): ", label)
		second, err := readPassword()
		fmt.Println()
		if err != nil {
			return "", err
		}
		if string(first) == string(second) {
			return string(first), nil
		}
		color.Yellow("! Passwords did not match, try again.")
	}
}
