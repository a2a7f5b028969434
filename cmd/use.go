package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var useCmd = &cobra.Command{
	Use:   "use [device-id]",
	Short: "Select the active device",
	Long: "Select the device subsequent commands target. Pass a device id from\n" +
		"`devices`, or combine with --platform to pick the first usable device\n" +
		"of that platform.",
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" && platformHint() == "" {
		return fmt.Errorf("pass a device id or --platform")
	}

	device, err := theApp.router.SetDevice(cmd.Context(), id, platformHint())
	if err != nil {
		return err
	}
	return output.Print(device)
}
