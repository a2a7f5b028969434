package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var longpressCmd = &cobra.Command{
	Use:   "longpress",
	Short: "Long-press an element or a coordinate",
	RunE:  runLongpress,
}

func init() {
	rootCmd.AddCommand(longpressCmd)
	longpressCmd.Flags().String("text", "", "Long-press the element matching this text")
	longpressCmd.Flags().String("id", "", "Long-press the element whose resource id contains this value")
	longpressCmd.Flags().Int("index", -1, "Long-press the element at this index from the last ui dump")
	longpressCmd.Flags().Int("x", -1, "X coordinate (logical pixels)")
	longpressCmd.Flags().Int("y", -1, "Y coordinate (logical pixels)")
	longpressCmd.Flags().Int("duration", 1000, "Press duration in milliseconds")
}

func runLongpress(cmd *cobra.Command, args []string) error {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	text, _ := cmd.Flags().GetString("text")
	id, _ := cmd.Flags().GetString("id")
	index, _ := cmd.Flags().GetInt("index")
	duration, _ := cmd.Flags().GetInt("duration")

	el, client, err := theApp.resolveTapTarget(cmd.Context(), text, id, index)
	if err != nil {
		return err
	}
	if el != nil {
		x, y = el.CenterX, el.CenterY
	} else if x < 0 || y < 0 {
		return fmt.Errorf("pass --text, --id, --index, or both --x and --y")
	}
	if client == nil {
		if client, err = theApp.resolveClient(cmd.Context()); err != nil {
			return err
		}
	}

	if err := client.LongPress(cmd.Context(), x, y, duration); err != nil {
		return err
	}
	return output.Print(tapResult{OK: true, X: x, Y: y, Element: el})
}
