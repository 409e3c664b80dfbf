package cmd

import (
	"os"
	"strconv"

	"archup/internal/config"
	apperr "archup/internal/errors"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// stepsCmd represents the steps command
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Prints the installation step catalog",
	Long: `Prints the ordered installation step catalog with each step's
ordinal, so a failed run can be resumed with 'archup install --from N'.
Steps marked verified carry an independent postcondition check on top of
the tool's own exit status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return apperr.E("steps", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"#", "STEP", "VERIFIED"})
		for i, step := range buildInstallSteps(cfg) {
			verified := ""
			if step.Verify != nil {
				verified = "yes"
			}
			table.Append([]string{strconv.Itoa(i + 1), step.Name, verified})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}
