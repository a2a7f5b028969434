package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Check desktop accessibility permissions",
	Long: "Probe whether the desktop target can introspect UI hierarchies. When\n" +
		"denied, the result carries step-by-step remediation instructions and\n" +
		"the system permission pane is opened once.",
	RunE: runPermissions,
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
}

func runPermissions(cmd *cobra.Command, args []string) error {
	status, err := theApp.desktop.Accessibility().CheckPermissions(cmd.Context())
	if err != nil {
		return err
	}
	return output.Print(status)
}
