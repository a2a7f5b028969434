package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Show system information for the active device",
	RunE:  runSysinfo,
}

func init() {
	rootCmd.AddCommand(sysinfoCmd)
}

func runSysinfo(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	info, err := client.SystemInfo(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, info)
	return nil
}
