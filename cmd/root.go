package cmd

import (
	"errors"
	"os"

	apperr "archup/internal/errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "archup",
	Short: "archup automates Arch Linux installation and post-install setup",
	// SilenceErrors is used to prevent cobra from printing the error,
	// as we handle it ourselves in the Execute function.
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Print the help message if no subcommand is provided
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// color.Red writes to os.Stderr-backed output in red
		color.Red("Error: %v\n", err)
		// A failed installation step carries the exit code of the
		// tool that failed; everything else exits 1.
		var e *apperr.Error
		if errors.As(err, &e) && e.Code > 0 {
			os.Exit(e.Code)
		}
		os.Exit(1)
	}
}
