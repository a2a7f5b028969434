package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text into the focused field",
	Args:  cobra.ExactArgs(1),
	RunE:  runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	text := args[0]
	if text == "" {
		return fmt.Errorf("nothing to type")
	}

	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.InputText(cmd.Context(), text); err != nil {
		return err
	}
	return output.Print(struct {
		OK    bool `yaml:"ok"    json:"ok"`
		Typed int  `yaml:"typed" json:"typed"`
	}{true, len(text)})
}
