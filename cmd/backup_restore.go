package cmd

import (
	"fmt"

	apperr "archup/internal/errors"
	"archup/internal/precheck"
	"archup/internal/prompt"
	"archup/internal/snapshot"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// backupRestoreCmd represents the restore command
var backupRestoreCmd = &cobra.Command{
	Use:   "restore <snapshot-name>",
	Short: "Restores the system to a Timeshift snapshot",
	Long: `Restores the system to a named Timeshift snapshot. The system state
after the snapshot is lost; a confirmation is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		if err := precheck.Root(); err != nil {
			return apperr.E("backup-restore", err)
		}

		if !restoreYes {
			msg := fmt.Sprintf("The system will be rolled back to snapshot %s.", name)
			if err := prompt.ConfirmAction(msg); err != nil {
				return apperr.E("backup-restore", err)
			}
		}

		if err := snapshot.Restore(name); err != nil {
			return apperr.E("backup-restore", err)
		}
		color.Green("✔ Snapshot %s restored. Reboot to complete the rollback.", name)
		return nil
	},
}

var restoreYes bool

func init() {
	backupRestoreCmd.Flags().BoolVar(&restoreYes, "yes", false, "skip the confirmation prompt")
	backupCmd.AddCommand(backupRestoreCmd)
}
