package prompt

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockLsblk(t *testing.T, output string) {
	original := execCommand
	t.Cleanup(func() { execCommand = original })
	execCommand = func(name string, args ...string) *exec.Cmd {
		return exec.Command("printf", "%s", output)
	}
}

func mockStdin(t *testing.T, input string) {
	original := stdin
	t.Cleanup(func() { stdin = original })
	stdin = strings.NewReader(input)
}

func TestListDisks(t *testing.T) {
	mockLsblk(t, "sda 465.8G disk Samsung SSD 870\nsr0 1024M rom  \nnvme0n1 931.5G disk\n")

	devices, err := ListDisks()

	require.NoError(t, err)
	require.Len(t, devices, 2, "rom devices are not installation targets")
	assert.Equal(t, Device{Path: "/dev/sda", Size: "465.8G", Model: "Samsung SSD 870"}, devices[0])
	assert.Equal(t, Device{Path: "/dev/nvme0n1", Size: "931.5G"}, devices[1])
}

func TestSelectDisk(t *testing.T) {
	mockLsblk(t, "sda 465.8G disk\nvdb 20G disk\n")
	mockStdin(t, "2\n")

	selected, err := SelectDisk()

	require.NoError(t, err)
	assert.Equal(t, "/dev/vdb", selected)
}

func TestSelectDiskRejectsBadChoice(t *testing.T) {
	for _, input := range []string{"0\n", "3\n", "x\n"} {
		mockLsblk(t, "sda 465.8G disk\nvdb 20G disk\n")
		mockStdin(t, input)

		_, err := SelectDisk()
		assert.Error(t, err, "input %q", input)
	}
}

func TestSelectDiskNoDisks(t *testing.T) {
	mockLsblk(t, "sr0 1024M rom\n")

	_, err := SelectDisk()
	assert.ErrorContains(t, err, "no disks found")
}

func TestConfirmWipe(t *testing.T) {
	mockStdin(t, "/dev/sda\n")
	assert.NoError(t, ConfirmWipe("/dev/sda"))

	mockStdin(t, "/dev/sdb\n")
	assert.Error(t, ConfirmWipe("/dev/sda"))

	mockStdin(t, "yes\n")
	assert.Error(t, ConfirmWipe("/dev/sda"), "a bare yes is not enough for a disk wipe")
}

func TestConfirmAction(t *testing.T) {
	mockStdin(t, "yes\n")
	assert.NoError(t, ConfirmAction("destroy everything"))

	mockStdin(t, "no\n")
	assert.Error(t, ConfirmAction("destroy everything"))
}

func TestPassword(t *testing.T) {
	original := readPassword
	t.Cleanup(func() { readPassword = original })

	answers := [][]byte{[]byte("hunter2"), []byte("hunter2")}
	readPassword = func() ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}

	pw, err := Password("Root password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

func TestPasswordRetriesOnMismatch(t *testing.T) {
	original := readPassword
	t.Cleanup(func() { readPassword = original })

	answers := [][]byte{[]byte("first"), []byte("second"), []byte("match"), []byte("match")}
	readPassword = func() ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}

	pw, err := Password("Root password")
	require.NoError(t, err)
	assert.Equal(t, "match", pw)
	assert.Empty(t, answers, "all four entries consumed")
}
