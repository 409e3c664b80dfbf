package chroot

import (
	"os/exec"
	"testing"

	"archup/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecInvokesArchChroot(t *testing.T) {
	original := execCommand
	t.Cleanup(func() { execCommand = original })

	var gotName string
	var gotArgs []string
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		// cat consumes the stdin body and exits 0.
		return exec.Command("cat")
	}

	require.NoError(t, Exec("/mnt", "echo hello"))
	assert.Equal(t, "arch-chroot", gotName)
	assert.Equal(t, []string{"/mnt", "/bin/bash", "-s"}, gotArgs)
}

// captureScripts redirects Exec so configure helpers can be inspected
// without a target system.
func captureScripts(t *testing.T) *[]string {
	original := Exec
	t.Cleanup(func() { Exec = original })

	var scripts []string
	Exec = func(root, script string) error {
		scripts = append(scripts, script)
		return nil
	}
	return &scripts
}

func TestSetTimezone(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, SetTimezone("/mnt", "Europe/Rome"))

	require.Len(t, *scripts, 1)
	assert.Contains(t, (*scripts)[0], "ln -sf /usr/share/zoneinfo/'Europe/Rome' /etc/localtime")
	assert.Contains(t, (*scripts)[0], "hwclock --systohc")
}

func TestSetLocale(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, SetLocale("/mnt", "en_US.UTF-8", "us"))

	script := (*scripts)[0]
	assert.Contains(t, script, "locale-gen")
	assert.Contains(t, script, "LANG='en_US.UTF-8'")
	assert.Contains(t, script, "KEYMAP='us'")
}

func TestSetHostname(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, SetHostname("/mnt", "workbench"))

	script := (*scripts)[0]
	assert.Contains(t, script, "echo 'workbench' > /etc/hostname")
	assert.Contains(t, script, "127.0.1.1\tworkbench")
}

func TestSetRootPasswordQuotesCredentials(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, SetRootPassword("/mnt", "p4'ss; rm -rf /"))

	// The single quote inside the password must be escaped, not close
	// the quoting.
	assert.Contains(t, (*scripts)[0], `root:'p4'\''ss; rm -rf /'`)
}

func TestCreateUser(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, CreateUser("/mnt", "arch", "secret"))

	script := (*scripts)[0]
	assert.Contains(t, script, "useradd -m -G wheel -s /bin/bash 'arch'")
	assert.Contains(t, script, "'arch':'secret' | chpasswd")
	assert.Contains(t, script, "/etc/sudoers.d/10-wheel")
}

func TestInstallBootloaderUEFI(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, InstallBootloader("/mnt", config.BootUEFI, "/dev/vda"))

	script := (*scripts)[0]
	assert.Contains(t, script, "bootctl install")
	assert.Contains(t, script, "title Arch Linux")
	assert.NotContains(t, script, "grub-install")
}

func TestInstallBootloaderBIOS(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, InstallBootloader("/mnt", config.BootBIOS, "/dev/sda"))

	script := (*scripts)[0]
	assert.Contains(t, script, "grub-install --target=i386-pc '/dev/sda'")
	assert.Contains(t, script, "grub-mkconfig")
	assert.NotContains(t, script, "bootctl")
}

func TestEnableServices(t *testing.T) {
	scripts := captureScripts(t)

	require.NoError(t, EnableServices("/mnt", []string{"NetworkManager", "sshd"}))
	assert.Contains(t, (*scripts)[0], "systemctl enable 'NetworkManager' 'sshd'")

	require.NoError(t, EnableServices("/mnt", nil))
	assert.Len(t, *scripts, 1, "no call for an empty unit list")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'plain'", quote("plain"))
	assert.Equal(t, `'it'\''s'`, quote("it's"))
}
