package pacman

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockExec(t *testing.T, fn func(string, ...string) *exec.Cmd) *[][]string {
	original := execCommand
	t.Cleanup(func() { execCommand = original })

	var calls [][]string
	execCommand = func(name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string{name}, args...))
		return fn(name, args...)
	}
	return &calls
}

func TestInstalled(t *testing.T) {
	mockExec(t, func(string, ...string) *exec.Cmd { return exec.Command("true") })
	ok, err := Installed("/mnt", "base")
	require.NoError(t, err)
	assert.True(t, ok)

	mockExec(t, func(string, ...string) *exec.Cmd { return exec.Command("false") })
	ok, err = Installed("/mnt", "base")
	require.NoError(t, err, "a nonzero pacman exit means not installed, not an error")
	assert.False(t, ok)
}

func TestInstalledQueryShape(t *testing.T) {
	calls := mockExec(t, func(string, ...string) *exec.Cmd { return exec.Command("true") })

	_, err := Installed("/mnt", "linux")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"pacman", "-Q", "--root", "/mnt", "linux"}, (*calls)[0])
}

func TestGenfstab(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0755))

	mockExec(t, func(string, ...string) *exec.Cmd {
		return exec.Command("printf", "%s", "UUID=abcd / ext4 rw 0 1")
	})

	require.NoError(t, Genfstab(root))

	data, err := os.ReadFile(filepath.Join(root, "etc/fstab"))
	require.NoError(t, err)
	assert.Equal(t, "UUID=abcd / ext4 rw 0 1\n", string(data))
}

func TestInstallArgs(t *testing.T) {
	calls := mockExec(t, func(string, ...string) *exec.Cmd { return exec.Command("true") })

	require.NoError(t, Install([]string{"hyprland", "waybar"}))

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"pacman", "-S", "--noconfirm", "--needed", "hyprland", "waybar"}, (*calls)[0])
}
