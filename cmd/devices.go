package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices across all backends",
	Long: "List connected Android devices, iOS simulators, and the local desktop\n" +
		"target. Backends whose toolchain is missing are skipped silently.",
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices, err := theApp.router.ListDevices(cmd.Context())
	if err != nil {
		return err
	}
	return output.Print(output.DeviceResult{
		Active:  theApp.activeDeviceID(),
		Devices: devices,
	})
}
