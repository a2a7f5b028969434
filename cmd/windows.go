package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List desktop windows",
	Long: "List the visible top-level windows of the desktop target. Exactly one\n" +
		"window is reported focused per listing.",
	RunE: runWindows,
}

var windowsFocusCmd = &cobra.Command{
	Use:   "focus [window-id]",
	Short: "Focus a desktop window",
	Long: "Bring a window to the foreground. Focus is best-effort: when raising\n" +
		"fails, a click at the window's center is attempted instead, and\n" +
		"failures are logged rather than returned.",
	Args: cobra.ExactArgs(1),
	RunE: runWindowsFocus,
}

var windowsResizeCmd = &cobra.Command{
	Use:   "resize",
	Short: "Resize a desktop window",
	RunE:  runWindowsResize,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.AddCommand(windowsFocusCmd)
	windowsCmd.AddCommand(windowsResizeCmd)
	windowsResizeCmd.Flags().String("id", "", "Window id (default: the focused window)")
	windowsResizeCmd.Flags().Int("width", 0, "New width")
	windowsResizeCmd.Flags().Int("height", 0, "New height")
}

func runWindows(cmd *cobra.Command, args []string) error {
	result, err := theApp.desktop.Windows().WindowListResult(cmd.Context())
	if err != nil {
		return err
	}
	return output.Print(result)
}

func runWindowsFocus(cmd *cobra.Command, args []string) error {
	if err := theApp.desktop.Windows().Focus(cmd.Context(), args[0]); err != nil {
		return err
	}
	return output.Print(struct {
		OK     bool   `yaml:"ok"     json:"ok"`
		Window string `yaml:"window" json:"window"`
	}{true, args[0]})
}

func runWindowsResize(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("pass positive --width and --height")
	}

	if err := theApp.desktop.Windows().Resize(cmd.Context(), id, width, height); err != nil {
		return err
	}
	return output.Print(struct {
		OK     bool `yaml:"ok"     json:"ok"`
		Width  int  `yaml:"width"  json:"width"`
		Height int  `yaml:"height" json:"height"`
	}{true, width, height})
}
