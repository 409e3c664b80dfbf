package cmd

import (
	apperr "archup/internal/errors"
	"archup/internal/precheck"
	"archup/internal/snapshot"

	"github.com/spf13/cobra"
)

var backupComment string

// backupCreateCmd represents the create command
var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a new Timeshift snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := precheck.Root(); err != nil {
			return apperr.E("backup-create", err)
		}
		if err := snapshot.Create(backupComment); err != nil {
			return apperr.E("backup-create", err)
		}
		return nil
	},
}

func init() {
	backupCreateCmd.Flags().StringVar(&backupComment, "comment", "archup snapshot", "snapshot comment")
	backupCmd.AddCommand(backupCreateCmd)
}
