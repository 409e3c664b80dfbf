package cmd

import (
	"os"

	apperr "archup/internal/errors"
	"archup/internal/snapshot"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// backupListCmd represents the list command
var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists existing Timeshift snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		snaps, err := snapshot.List()
		if err != nil {
			return apperr.E("backup-list", err)
		}
		if len(snaps) == 0 {
			color.Yellow("No snapshots found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"NAME", "TAGS", "COMMENT"})
		for _, s := range snaps {
			table.Append([]string{s.Name, s.Tags, s.Comment})
		}
		table.Render()
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupListCmd)
}
