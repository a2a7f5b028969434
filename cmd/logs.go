package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/platform"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Fetch device logs",
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().String("filter", "", "Only lines containing this substring")
	logsCmd.Flags().Int("lines", 0, "Max lines to return (0 = backend default)")
	logsCmd.Flags().Bool("clear", false, "Clear the log buffer instead of fetching")
}

func runLogs(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}

	if clear, _ := cmd.Flags().GetBool("clear"); clear {
		return client.ClearLogs(cmd.Context())
	}

	filter, _ := cmd.Flags().GetString("filter")
	lines, _ := cmd.Flags().GetInt("lines")
	out, err := client.Logs(cmd.Context(), platform.LogOptions{Filter: filter, MaxLines: lines})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}
