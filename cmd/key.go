package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var keyCmd = &cobra.Command{
	Use:   "key [name]",
	Short: "Press a key",
	Long: "Press a named key (home, back, enter, tab, delete, ...). Names not in\n" +
		"the friendly set pass through to the backend unchanged, so raw Android\n" +
		"KEYCODE_* values and HID codes keep working.",
	Args: cobra.ExactArgs(1),
	RunE: runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.PressKey(cmd.Context(), args[0]); err != nil {
		return err
	}
	return output.Print(struct {
		OK  bool   `yaml:"ok"  json:"ok"`
		Key string `yaml:"key" json:"key"`
	}{true, args[0]})
}
