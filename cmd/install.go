package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
	"github.com/mj1618/device-cli/internal/platform"
)

type installResult struct {
	OK   bool   `yaml:"ok"             json:"ok"`
	Path string `yaml:"path"           json:"path"`
	Note string `yaml:"note,omitempty" json:"note,omitempty"`
}

var installCmd = &cobra.Command{
	Use:   "install [path]",
	Short: "Install an application package",
	Long:  "Install an .apk (Android) or .app bundle (iOS simulator) on the active device.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.InstallApp(cmd.Context(), args[0]); err != nil {
		var unsupported *platform.UnsupportedError
		if errors.As(err, &unsupported) {
			return output.Print(installResult{OK: false, Path: args[0], Note: unsupported.Error()})
		}
		return err
	}
	return output.Print(installResult{OK: true, Path: args[0]})
}
