package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
	"github.com/mj1618/device-cli/internal/screenshot"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the screen of the active device",
	Long: "Capture a screenshot, compressed to the configured size budget by\n" +
		"default. Use --raw for the original PNG at full resolution.",
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("out", "", "Write the image to this path (default: screenshot.<ext> in the working directory)")
	screenshotCmd.Flags().Bool("raw", false, "Skip compression, keep the original PNG")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	outPath, _ := cmd.Flags().GetString("out")

	result, err := theApp.router.Screenshot(cmd.Context(), platformHint(), !raw, theApp.screenshotOptions())
	if err != nil {
		return err
	}

	if outPath == "" {
		ext := "jpg"
		if result.MIMEType == screenshot.MIMEPNG {
			ext = "png"
		}
		outPath = "screenshot." + ext
	}
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}

	return output.Print(struct {
		Path     string  `yaml:"path"               json:"path"`
		MIMEType string  `yaml:"mimeType"           json:"mimeType"`
		Width    int     `yaml:"width"              json:"width"`
		Height   int     `yaml:"height"             json:"height"`
		Scale    float64 `yaml:"scale"              json:"scale"`
		Bytes    int     `yaml:"bytes"              json:"bytes"`
		Oversize bool    `yaml:"oversize,omitempty" json:"oversize,omitempty"`
	}{outPath, result.MIMEType, result.Width, result.Height, result.ScaleFactor, len(result.Data), result.Oversize})
}
