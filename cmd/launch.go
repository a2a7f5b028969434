package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var launchCmd = &cobra.Command{
	Use:   "launch [app-id]",
	Short: "Launch an application",
	Long: "Launch an app on the active device: a package name on Android, a bundle\n" +
		"id on iOS, or an executable path on the desktop (spawned as a\n" +
		"supervised companion process).",
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.LaunchApp(cmd.Context(), args[0]); err != nil {
		return err
	}
	return output.Print(struct {
		OK  bool   `yaml:"ok"  json:"ok"`
		App string `yaml:"app" json:"app"`
	}{true, args[0]})
}
