package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Swipe between two coordinates",
	RunE:  runSwipe,
}

func init() {
	rootCmd.AddCommand(swipeCmd)
	swipeCmd.Flags().Int("from-x", -1, "Start X coordinate (logical pixels)")
	swipeCmd.Flags().Int("from-y", -1, "Start Y coordinate (logical pixels)")
	swipeCmd.Flags().Int("to-x", -1, "End X coordinate (logical pixels)")
	swipeCmd.Flags().Int("to-y", -1, "End Y coordinate (logical pixels)")
	swipeCmd.Flags().Int("duration", 300, "Swipe duration in milliseconds")
}

func runSwipe(cmd *cobra.Command, args []string) error {
	x1, _ := cmd.Flags().GetInt("from-x")
	y1, _ := cmd.Flags().GetInt("from-y")
	x2, _ := cmd.Flags().GetInt("to-x")
	y2, _ := cmd.Flags().GetInt("to-y")
	duration, _ := cmd.Flags().GetInt("duration")

	if x1 < 0 || y1 < 0 || x2 < 0 || y2 < 0 {
		return fmt.Errorf("pass --from-x, --from-y, --to-x, and --to-y")
	}

	client, err := theApp.resolveClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := client.Swipe(cmd.Context(), x1, y1, x2, y2, duration); err != nil {
		return err
	}
	return output.Print(struct {
		OK bool `yaml:"ok" json:"ok"`
	}{true})
}
