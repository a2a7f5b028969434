package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/logging"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/output"
	"github.com/mj1618/device-cli/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "device-cli",
	Short: "Drive mobile and desktop UI surfaces from one command set",
	Long: "A CLI tool that lets AI agents inspect and interact with Android devices,\n" +
		"iOS simulators, and the local desktop through a single unified surface.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("platform", "", "Target platform: android, ios, desktop (overrides the active device)")
	rootCmd.PersistentFlags().String("device", "", "Target device id for this invocation")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.config/device-cli/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml", "":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}

		platformHint, _ := rootCmd.PersistentFlags().GetString("platform")
		if platformHint != "" && !model.Platform(platformHint).Valid() {
			return fmt.Errorf("unsupported platform: %s (use android, ios, or desktop)", platformHint)
		}

		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		if err := initApp(configPath); err != nil {
			return err
		}

		level := theApp.cfg.LogLevel
		if flagLevel, _ := rootCmd.PersistentFlags().GetString("log-level"); flagLevel != "" {
			level = flagLevel
		}
		logging.Setup(level, false)
		return nil
	}
}

// platformHint reads the persistent --platform flag as a typed value.
func platformHint() model.Platform {
	p, _ := rootCmd.PersistentFlags().GetString("platform")
	return model.Platform(p)
}

// deviceFlag reads the persistent --device flag.
func deviceFlag() string {
	d, _ := rootCmd.PersistentFlags().GetString("device")
	return d
}
