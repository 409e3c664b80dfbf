package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the name of the application
	AppName = "archup"
	// DefaultTargetRoot is where the new system is assembled during install
	DefaultTargetRoot = "/mnt"
	// DefaultDiagDir is where failure diagnostics are persisted
	DefaultDiagDir = "/var/log/archup"
	// firmwareDir is probed to decide between UEFI and legacy BIOS boot
	firmwareDir = "/sys/firmware/efi/efivars"
)

// BootMode selects the partition layout and bootloader.
type BootMode string

const (
	BootUEFI BootMode = "uefi"
	BootBIOS BootMode = "bios"
)

// Config is the immutable installation configuration. It is resolved
// once, before any step runs, from defaults, an optional answer file and
// interactive prompts; the step runner only ever reads it.
type Config struct {
	Disk       string `yaml:"disk"`
	Hostname   string `yaml:"hostname"`
	Timezone   string `yaml:"timezone"`
	Locale     string `yaml:"locale"`
	Keymap     string `yaml:"keymap"`
	Username   string `yaml:"username"`
	SwapSize   string `yaml:"swap_size"`
	Mirror     string `yaml:"mirror_country"`
	TargetRoot string `yaml:"target_root"`

	Packages        []string `yaml:"packages"`
	DesktopPackages []string `yaml:"desktop_packages"`
	Services        []string `yaml:"services"`

	// Derived from firmware probing, never from user input.
	BootMode BootMode `yaml:"-"`

	// Credential material collected from prompts, never serialized.
	RootPassword string `yaml:"-"`
	UserPassword string `yaml:"-"`
}

// New creates a Config with defaults and the probed boot mode.
var New = func() (*Config, error) {
	return &Config{
		Hostname:   "archlinux",
		Timezone:   "UTC",
		Locale:     "en_US.UTF-8",
		Keymap:     "us",
		Username:   "arch",
		SwapSize:   "4G",
		Mirror:     "all",
		TargetRoot: DefaultTargetRoot,
		Packages: []string{
			"base", "base-devel", "linux", "linux-firmware",
			"networkmanager", "openssh", "sudo", "vim",
		},
		DesktopPackages: []string{
			"hyprland", "waybar", "kitty", "wofi",
			"xdg-desktop-portal-hyprland", "pipewire", "wireplumber",
			"greetd", "greetd-tuigreet",
		},
		Services: []string{"NetworkManager", "sshd"},
		BootMode: probeBootMode(),
	}, nil
}

// LoadAnswers overlays values from a YAML answer file onto the config.
func (c *Config) LoadAnswers(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read answer file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse answer file %s: %w", path, err)
	}
	return nil
}

// DiagDir returns the directory failure diagnostics are written to.
func (c *Config) DiagDir() string {
	if dir := os.Getenv("ARCHUP_DIAG_DIR"); dir != "" {
		return dir
	}
	return DefaultDiagDir
}

// PacmanLog returns the path of the package manager log inside the target.
func (c *Config) PacmanLog() string {
	return c.TargetRoot + "/var/log/pacman.log"
}

func probeBootMode() BootMode {
	// The override environment variable is useful for testing.
	dir := os.Getenv("ARCHUP_FIRMWARE_DIR")
	if dir == "" {
		dir = firmwareDir
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return BootUEFI
	}
	return BootBIOS
}
