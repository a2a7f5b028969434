package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command]",
	Short: "Run a shell command on the active device",
	Long: "Run a command in the device's shell (adb shell on Android, simctl spawn\n" +
		"on iOS simulators). Output is printed verbatim.",
	Args: cobra.ExactArgs(1),
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	out, err := client.Shell(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}
