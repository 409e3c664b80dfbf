// Package disk wraps the partitioning, formatting and mounting tools.
// Commands are only observed through their exit status; independent
// read-only verifiers (blkid, /proc/mounts, /proc/swaps) confirm what
// the tools claim to have done.
package disk

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"archup/internal/config"
	"archup/internal/runner"
)

var (
	// execCommand is a variable to allow mocking of exec.Command in tests
	execCommand = exec.Command

	procMounts = "/proc/mounts"
	procSwaps  = "/proc/swaps"
)

// ZapTable destroys any existing partition table on the device. Safe to
// call on an already-blank disk.
var ZapTable = func(device string) error {
	return runner.Run(execCommand("sgdisk", "--zap-all", device))
}

// Partition writes the boot-mode-dependent GPT layout: a boot
// partition, a swap partition and a root partition spanning the rest of
// the disk. This is a single irreversible physical write.
var Partition = func(device string, mode config.BootMode, swapSize string) error {
	swap := "+" + swapSize
	var args [][]string
	switch mode {
	case config.BootUEFI:
		args = [][]string{
			{"-n", "1:1M:+512M", "-t", "1:ef00", "-c", "1:EFI", device},
			{"-n", "2:0:" + swap, "-t", "2:8200", "-c", "2:swap", device},
			{"-n", "3:0:0", "-t", "3:8300", "-c", "3:root", device},
		}
	default:
		args = [][]string{
			{"-n", "1:1M:+1M", "-t", "1:ef02", "-c", "1:grub", device},
			{"-n", "2:0:" + swap, "-t", "2:8200", "-c", "2:swap", device},
			{"-n", "3:0:0", "-t", "3:8300", "-c", "3:root", device},
		}
	}
	for _, a := range args {
		if err := runner.Run(execCommand("sgdisk", a...)); err != nil {
			return err
		}
	}
	return Settle()
}

// Settle waits for the kernel to publish the new partition device nodes.
var Settle = func() error {
	return runner.Run(execCommand("udevadm", "settle"))
}

// PartitionPath returns the device path of partition n, handling the
// nvme/mmcblk "p" suffix convention.
func PartitionPath(device string, n int) string {
	if strings.Contains(device, "nvme") || strings.Contains(device, "mmcblk") {
		return fmt.Sprintf("%sp%d", device, n)
	}
	return fmt.Sprintf("%s%d", device, n)
}

// BootPartition returns the boot partition path (EFI on UEFI systems).
func BootPartition(device string) string {
	return PartitionPath(device, 1)
}

// SwapPartition returns the swap partition path.
func SwapPartition(device string) string {
	return PartitionPath(device, 2)
}

// RootPartition returns the root partition path.
func RootPartition(device string) string {
	return PartitionPath(device, 3)
}

// Format creates the filesystems for the layout written by Partition.
// The bios_grub partition on legacy systems stays raw.
var Format = func(device string, mode config.BootMode) error {
	if mode == config.BootUEFI {
		if err := runner.Run(execCommand("mkfs.vfat", "-F", "32", "-n", "EFI", BootPartition(device))); err != nil {
			return fmt.Errorf("failed to format EFI partition: %w", err)
		}
	}
	if err := runner.Run(execCommand("mkswap", SwapPartition(device))); err != nil {
		return fmt.Errorf("failed to format swap partition: %w", err)
	}
	if err := runner.Run(execCommand("mkfs.ext4", "-F", "-L", "root", RootPartition(device))); err != nil {
		return fmt.Errorf("failed to format root partition: %w", err)
	}
	return nil
}

// Mount mounts source on dir, creating dir first.
var Mount = func(source, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create mount point %s: %w", dir, err)
	}
	return runner.Run(execCommand("mount", source, dir))
}

var Unmount = func(dir string) error {
	return runner.Run(execCommand("umount", dir))
}

var SwapOn = func(device string) error {
	return runner.Run(execCommand("swapon", device))
}

var SwapOff = func(device string) error {
	return runner.Run(execCommand("swapoff", device))
}

// Filesystem returns the filesystem type blkid reports for a device.
var Filesystem = func(device string) (string, error) {
	return runner.Output(execCommand("blkid", "-o", "value", "-s", "TYPE", device))
}

// UUID returns the filesystem UUID blkid reports for a device.
var UUID = func(device string) (string, error) {
	return runner.Output(execCommand("blkid", "-o", "value", "-s", "UUID", device))
}

// PartitionCount returns the number of partitions the kernel sees on a
// device.
var PartitionCount = func(device string) (int, error) {
	out, err := runner.Output(execCommand("lsblk", "-nro", "TYPE", device))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "part" {
			count++
		}
	}
	return count, nil
}

// IsMounted reports whether dir appears as a mount point in the mount
// table.
var IsMounted = func(dir string) (bool, error) {
	return inProcTable(procMounts, 1, dir)
}

// IsSwapActive reports whether the device appears in the active swap
// table.
var IsSwapActive = func(device string) (bool, error) {
	return inProcTable(procSwaps, 0, device)
}

func inProcTable(path string, field int, want string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) > field && fields[field] == want {
			return true, nil
		}
	}
	return false, nil
}

// Size returns the device size in bytes.
var Size = func(device string) (int64, error) {
	out, err := runner.Output(execCommand("lsblk", "-bdno", "SIZE", device))
	if err != nil {
		return 0, err
	}
	var size int64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%d", &size); err != nil {
		return 0, fmt.Errorf("unexpected lsblk size output %q: %w", out, err)
	}
	return size, nil
}
