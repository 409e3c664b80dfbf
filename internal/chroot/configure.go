package chroot

import (
	"fmt"
	"strings"

	"archup/internal/config"
)

// SetTimezone links the timezone and syncs the hardware clock.
func SetTimezone(root, timezone string) error {
	script := fmt.Sprintf(`ln -sf /usr/share/zoneinfo/%s /etc/localtime
hwclock --systohc`, quote(timezone))
	return Exec(root, script)
}

// SetLocale generates the locale and writes locale.conf and the console
// keymap.
func SetLocale(root, locale, keymap string) error {
	script := fmt.Sprintf(`sed -i 's/^#%s/%s/' /etc/locale.gen
locale-gen
echo LANG=%s > /etc/locale.conf
echo KEYMAP=%s > /etc/vconsole.conf`,
		locale, locale, quote(locale), quote(keymap))
	return Exec(root, script)
}

// SetHostname writes the hostname and a matching hosts file.
func SetHostname(root, hostname string) error {
	h := quote(hostname)
	script := fmt.Sprintf(`echo %s > /etc/hostname
cat > /etc/hosts <<EOF
127.0.0.1	localhost
::1		localhost
127.0.1.1	%s
EOF`, h, hostname)
	return Exec(root, script)
}

// RegenInitramfs rebuilds the initial ramdisk for all installed kernels.
func RegenInitramfs(root string) error {
	return Exec(root, "mkinitcpio -P")
}

// SetRootPassword sets the root account password.
func SetRootPassword(root, password string) error {
	script := fmt.Sprintf("echo root:%s | chpasswd", quote(password))
	return Exec(root, script)
}

// CreateUser creates a wheel-group user with a password and enables
// wheel sudo.
func CreateUser(root, username, password string) error {
	u := quote(username)
	script := fmt.Sprintf(`useradd -m -G wheel -s /bin/bash %s
echo %s:%s | chpasswd
echo '%%wheel ALL=(ALL:ALL) ALL' > /etc/sudoers.d/10-wheel
chmod 0440 /etc/sudoers.d/10-wheel`,
		u, u, quote(password))
	return Exec(root, script)
}

// InstallBootloader installs systemd-boot on UEFI systems and GRUB on
// legacy BIOS systems.
func InstallBootloader(root string, mode config.BootMode, device string) error {
	if mode == config.BootUEFI {
		script := `bootctl install
cat > /boot/loader/loader.conf <<EOF
default arch.conf
timeout 3
EOF
rootdev=$(findmnt -no SOURCE /)
cat > /boot/loader/entries/arch.conf <<EOF
title Arch Linux
linux /vmlinuz-linux
initrd /initramfs-linux.img
options root=$rootdev rw
EOF`
		return Exec(root, script)
	}
	script := fmt.Sprintf(`pacman -S --noconfirm --needed grub
grub-install --target=i386-pc %s
grub-mkconfig -o /boot/grub/grub.cfg`, quote(device))
	return Exec(root, script)
}

// EnableServices enables systemd units in the target. systemctl only
// writes symlinks here; the services start on first boot.
func EnableServices(root string, units []string) error {
	if len(units) == 0 {
		return nil
	}
	quoted := make([]string, len(units))
	for i, u := range units {
		quoted[i] = quote(u)
	}
	return Exec(root, "systemctl enable "+strings.Join(quoted, " "))
}
