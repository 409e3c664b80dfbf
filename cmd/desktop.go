package cmd

import (
	"errors"

	"archup/internal/config"
	apperr "archup/internal/errors"
	"archup/internal/install"
	"archup/internal/pacman"
	"archup/internal/precheck"
	"archup/internal/services"
	"archup/internal/snapshot"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var desktopFromStep int

// desktopCmd represents the desktop command
var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Installs the Hyprland desktop on the running system",
	Long: `Installs the Hyprland desktop environment and its services on the
freshly installed, booted system: window manager, portal, audio stack
and the greetd display manager. A Timeshift snapshot is taken first when
timeshift is available, so the change can be rolled back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := precheck.Root(); err != nil {
			return apperr.E("desktop", err)
		}

		cfg, err := config.New()
		if err != nil {
			return apperr.E("desktop", err)
		}

		color.Cyan("i Installing Hyprland desktop")

		st := install.NewState()
		r := install.NewRunner(buildDesktopSteps(cfg), st)
		if err := r.Run(desktopFromStep); err != nil {
			return failDesktop(err)
		}

		color.Green("✔ Desktop setup finished.")
		color.Cyan("i Log out or reboot to start the greetd session.")
		return nil
	},
}

func buildDesktopSteps(cfg *config.Config) []install.Step {
	return []install.Step{
		{
			Name: "snapshot system before changes",
			Action: func(st *install.State) error {
				if !snapshot.Installed() {
					color.Yellow("! timeshift not installed, skipping snapshot")
					return nil
				}
				return snapshot.Create("before desktop install")
			},
		},
		{
			Name: "install desktop packages",
			Action: func(st *install.State) error {
				return pacman.Install(cfg.DesktopPackages)
			},
			Verify: func(st *install.State) (bool, error) {
				return pacman.Installed("/", "hyprland")
			},
		},
		{
			Name: "enable display manager",
			Action: func(st *install.State) error {
				return services.Enable([]string{"greetd"})
			},
			Verify: func(st *install.State) (bool, error) {
				return services.IsEnabled("greetd")
			},
		},
	}
}

func failDesktop(err error) error {
	var stepErr *install.StepError
	if !errors.As(err, &stepErr) {
		return apperr.E("desktop", err)
	}
	color.Red("✖ Step %d (%s) failed: %v", stepErr.Ordinal, stepErr.Name, stepErr.Err)
	if snapshot.Installed() {
		color.Cyan("i Roll back with 'archup backup restore' if the system misbehaves.")
	}
	return apperr.WithCode("desktop", stepErr.ExitCode, stepErr)
}

func init() {
	desktopCmd.Flags().IntVar(&desktopFromStep, "from", 1, "step to resume from")
	rootCmd.AddCommand(desktopCmd)
}
