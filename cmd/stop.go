package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var stopCmd = &cobra.Command{
	Use:   "stop [app-id]",
	Short: "Stop an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.StopApp(cmd.Context(), args[0]); err != nil {
		return err
	}
	return output.Print(struct {
		OK  bool   `yaml:"ok"  json:"ok"`
		App string `yaml:"app" json:"app"`
	}{true, args[0]})
}
