package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"archup/internal/chroot"
	"archup/internal/config"
	"archup/internal/disk"
	apperr "archup/internal/errors"
	"archup/internal/install"
	"archup/internal/mirrors"
	"archup/internal/pacman"
	"archup/internal/precheck"
	"archup/internal/prompt"
	"archup/internal/sshkey"
	"archup/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	minDiskSize    = "10G"
	networkTimeout = 30 * time.Second
)

var (
	fromStep    int
	targetDisk  string
	answersFile string
	assumeYes   bool

	// readFile is a wrapper around os.ReadFile to allow mocking in tests.
	readFile = os.ReadFile
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Runs the Arch Linux installation",
	Long: `Runs the full Arch Linux installation against a target disk:
partitioning, base system bootstrap, locale/timezone/bootloader setup
and user creation. Steps run in order, exactly once each; --from resumes
a previous run at a given step (run 'archup steps' for the catalog).
On failure, held resources are released in reverse order and a
diagnostic record is written for post-mortem inspection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildInstallConfig()
		if err != nil {
			return apperr.E("install", err)
		}

		color.Cyan("i Boot mode: %s, target disk: %s", cfg.BootMode, cfg.Disk)

		st := install.NewState()
		r := install.NewRunner(buildInstallSteps(cfg), st)
		if err := r.Run(fromStep); err != nil {
			return failInstall(err, st, cfg)
		}

		color.Green("✔ Installation finished.")
		color.Cyan("i Remove the installation media and reboot into the new system.")
		color.Cyan("i Then run 'archup desktop' for the Hyprland setup.")
		return nil
	},
}

// buildInstallConfig resolves the immutable installation configuration
// from defaults, the answer file, flags and interactive prompts, and
// runs the prechecks. Any failure here is a precondition error: the
// process exits without having mutated anything.
func buildInstallConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if answersFile != "" {
		if err := cfg.LoadAnswers(answersFile); err != nil {
			return nil, err
		}
	}
	if targetDisk != "" {
		cfg.Disk = targetDisk
	}

	if err := precheck.Root(); err != nil {
		return nil, err
	}
	if err := precheck.Network(networkTimeout); err != nil {
		return nil, err
	}

	if cfg.Disk == "" {
		selected, err := prompt.SelectDisk()
		if err != nil {
			return nil, err
		}
		cfg.Disk = selected
	}
	if err := precheck.DiskSize(cfg.Disk, minDiskSize); err != nil {
		return nil, err
	}

	if cfg.RootPassword == "" {
		pw, err := prompt.Password("Root password")
		if err != nil {
			return nil, err
		}
		cfg.RootPassword = pw
	}
	if cfg.UserPassword == "" {
		pw, err := prompt.Password(fmt.Sprintf("Password for user %q", cfg.Username))
		if err != nil {
			return nil, err
		}
		cfg.UserPassword = pw
	}

	if !assumeYes {
		if err := prompt.ConfirmWipe(cfg.Disk); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// buildInstallSteps is the step catalog. Steps close over the immutable
// config; acquired OS resources are recorded on the run state so a
// failure can release them in reverse order.
func buildInstallSteps(cfg *config.Config) []install.Step {
	root := cfg.TargetRoot

	return []install.Step{
		{
			Name: "partition target disk",
			Action: func(st *install.State) error {
				if err := disk.ZapTable(cfg.Disk); err != nil {
					return err
				}
				return disk.Partition(cfg.Disk, cfg.BootMode, cfg.SwapSize)
			},
			Verify: func(st *install.State) (bool, error) {
				n, err := disk.PartitionCount(cfg.Disk)
				if err != nil {
					return false, err
				}
				return n == 3, nil
			},
		},
		{
			Name: "format partitions",
			Action: func(st *install.State) error {
				return disk.Format(cfg.Disk, cfg.BootMode)
			},
			Verify: func(st *install.State) (bool, error) {
				return verifyFilesystems(cfg)
			},
		},
		{
			Name: "mount filesystems and enable swap",
			Action: func(st *install.State) error {
				if err := disk.Mount(disk.RootPartition(cfg.Disk), root); err != nil {
					return err
				}
				st.Acquire(install.ResourceMount, root)
				if cfg.BootMode == config.BootUEFI {
					bootDir := filepath.Join(root, "boot")
					if err := disk.Mount(disk.BootPartition(cfg.Disk), bootDir); err != nil {
						return err
					}
					st.Acquire(install.ResourceMount, bootDir)
				}
				if err := disk.SwapOn(disk.SwapPartition(cfg.Disk)); err != nil {
					return err
				}
				st.Acquire(install.ResourceSwap, disk.SwapPartition(cfg.Disk))
				return nil
			},
			Verify: func(st *install.State) (bool, error) {
				mounted, err := disk.IsMounted(root)
				if err != nil || !mounted {
					return false, err
				}
				return disk.IsSwapActive(disk.SwapPartition(cfg.Disk))
			},
		},
		{
			Name: "refresh mirrorlist",
			Action: func(st *install.State) error {
				tmp, err := mirrors.Refresh(cfg.Mirror)
				if tmp != "" {
					st.Acquire(install.ResourceTempFile, tmp)
				}
				return err
			},
		},
		{
			Name: "install base system",
			Action: func(st *install.State) error {
				return pacman.Pacstrap(root, cfg.Packages)
			},
			Verify: func(st *install.State) (bool, error) {
				return pacman.Installed(root, "base")
			},
		},
		{
			Name: "generate fstab",
			Action: func(st *install.State) error {
				return pacman.Genfstab(root)
			},
			Verify: func(st *install.State) (bool, error) {
				return fileContains(filepath.Join(root, "etc/fstab"), "UUID=")
			},
		},
		{
			Name: "configure time zone and clock",
			Action: func(st *install.State) error {
				return chroot.SetTimezone(root, cfg.Timezone)
			},
		},
		{
			Name: "configure locale and keymap",
			Action: func(st *install.State) error {
				return chroot.SetLocale(root, cfg.Locale, cfg.Keymap)
			},
		},
		{
			Name: "set hostname",
			Action: func(st *install.State) error {
				return chroot.SetHostname(root, cfg.Hostname)
			},
		},
		{
			Name: "regenerate initramfs",
			Action: func(st *install.State) error {
				return chroot.RegenInitramfs(root)
			},
			Verify: func(st *install.State) (bool, error) {
				return util.FileExists(filepath.Join(root, "boot/initramfs-linux.img")), nil
			},
		},
		{
			Name: "set credentials and create user",
			Action: func(st *install.State) error {
				if err := chroot.SetRootPassword(root, cfg.RootPassword); err != nil {
					return err
				}
				return chroot.CreateUser(root, cfg.Username, cfg.UserPassword)
			},
		},
		{
			Name: "install bootloader",
			Action: func(st *install.State) error {
				return chroot.InstallBootloader(root, cfg.BootMode, cfg.Disk)
			},
			Verify: func(st *install.State) (bool, error) {
				if cfg.BootMode == config.BootUEFI {
					return util.FileExists(filepath.Join(root, "boot/EFI/systemd/systemd-bootx64.efi")), nil
				}
				return util.FileExists(filepath.Join(root, "boot/grub/grub.cfg")), nil
			},
		},
		{
			Name: "enable base services",
			Action: func(st *install.State) error {
				return chroot.EnableServices(root, cfg.Services)
			},
		},
		{
			Name: "deploy SSH key for user",
			Action: func(st *install.State) error {
				return sshkey.Deploy(root, cfg.Username)
			},
		},
	}
}

func verifyFilesystems(cfg *config.Config) (bool, error) {
	if cfg.BootMode == config.BootUEFI {
		fs, err := disk.Filesystem(disk.BootPartition(cfg.Disk))
		if err != nil || fs != "vfat" {
			return false, err
		}
	}
	fs, err := disk.Filesystem(disk.SwapPartition(cfg.Disk))
	if err != nil || fs != "swap" {
		return false, err
	}
	fs, err = disk.Filesystem(disk.RootPartition(cfg.Disk))
	if err != nil || fs != "ext4" {
		return false, err
	}
	return true, nil
}

func fileContains(path, substr string) (bool, error) {
	data, err := readFile(path)
	if err != nil {
		return false, nil
	}
	return strings.Contains(string(data), substr), nil
}

// failInstall handles an aborted run: capture the failure-time
// environment, release held resources in reverse order, persist the
// diagnostic record, and surface the failing tool's exit code.
func failInstall(err error, st *install.State, cfg *config.Config) error {
	var stepErr *install.StepError
	if !errors.As(err, &stepErr) {
		// Configuration error reported before any step ran; nothing
		// was acquired and nothing was attempted.
		return apperr.E("install", err)
	}

	color.Red("✖ Step %d (%s) failed: %v", stepErr.Ordinal, stepErr.Name, stepErr.Err)

	diag := install.Capture(stepErr, st, cfg.PacmanLog())

	rep := install.Cleanup(st)
	if n := rep.Failed(); n > 0 {
		color.Yellow("! %d resource(s) could not be released", n)
	}

	diagPath, derr := diag.Persist(cfg.DiagDir())
	if derr != nil {
		color.Yellow("! Could not persist diagnostic record: %v", derr)
	} else {
		color.Cyan("i Diagnostic record written to %s", diagPath)
	}

	return apperr.WithCode("install", stepErr.ExitCode, stepErr)
}

func init() {
	installCmd.Flags().IntVar(&fromStep, "from", 1, "step to resume from (see 'archup steps')")
	installCmd.Flags().StringVar(&targetDisk, "disk", "", "target disk device (prompted when omitted)")
	installCmd.Flags().StringVar(&answersFile, "config", "", "YAML answer file with pre-supplied configuration")
	installCmd.Flags().BoolVar(&assumeYes, "yes", false, "skip the destructive-action confirmation")
	rootCmd.AddCommand(installCmd)
}
