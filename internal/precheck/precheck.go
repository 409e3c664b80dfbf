// Package precheck detects precondition errors before the installer
// mutates anything: not root, no network, target disk too small. A
// precheck failure exits the run with nothing to clean up.
package precheck

import (
	"fmt"
	"net"
	"os"
	"time"

	"archup/internal/disk"
	"archup/internal/util"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// geteuid is a variable to allow mocking in tests
var geteuid = os.Geteuid

// netDialTimeout is a variable to allow mocking in tests
var netDialTimeout = net.DialTimeout

// Root verifies the process runs with root privileges.
var Root = func() error {
	if geteuid() != 0 {
		return fmt.Errorf("this command must be run as root")
	}
	return nil
}

// Network polls a well-known mirror endpoint until it is reachable or
// the timeout elapses. The wait is bounded per the collaborator, not
// per the whole run.
var Network = func(timeout time.Duration) error {
	const address = "archlinux.org:443"

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = " Checking network reachability..."
	s.Start()
	defer s.Stop()

	timeoutChan := time.After(timeout)
	for {
		select {
		case <-timeoutChan:
			s.FinalMSG = color.RedString("✖ No network route to %s\n", address)
			return fmt.Errorf("network unreachable: could not connect to %s within %s", address, timeout)
		default:
			conn, err := netDialTimeout("tcp", address, 2*time.Second)
			if err == nil {
				conn.Close()
				s.FinalMSG = color.GreenString("✔ Network is reachable.\n")
				return nil
			}
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// DiskSize verifies the target device is at least min (e.g. "10G").
var DiskSize = func(device, min string) error {
	want, err := util.ParseSize(min)
	if err != nil {
		return err
	}
	have, err := disk.Size(device)
	if err != nil {
		return fmt.Errorf("could not determine size of %s: %w", device, err)
	}
	if have < want {
		return fmt.Errorf("disk %s is too small: %d bytes available, %s required", device, have, min)
	}
	return nil
}
