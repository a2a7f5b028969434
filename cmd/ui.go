package cmd

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/output"
	"github.com/mj1618/device-cli/internal/screenshot"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Dump the UI hierarchy of the active device",
	Long: "Fetch the current UI hierarchy as a flat, indexed element list. The\n" +
		"indices feed `tap --index` and the find commands until the next dump.\n" +
		"With --annotate, also writes a screenshot with every element's index\n" +
		"drawn over its bounding box.",
	RunE: runUi,
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().Bool("annotate", false, "Write an annotated screenshot alongside the dump")
	uiCmd.Flags().String("annotate-out", "annotated.png", "Path for the annotated screenshot")
}

func runUi(cmd *cobra.Command, args []string) error {
	h, client, err := theApp.fetchHierarchy(cmd.Context())
	if err != nil {
		return err
	}

	annotate, _ := cmd.Flags().GetBool("annotate")
	if annotate {
		raw, err := client.ScreenshotRaw(cmd.Context())
		if err != nil {
			return err
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("decode screenshot for annotation: %w", err)
		}
		annotated := screenshot.Annotate(img, h.Elements, h.ScaleFactor)

		outPath, _ := cmd.Flags().GetString("annotate-out")
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, annotated, imaging.PNG); err != nil {
			return fmt.Errorf("encode annotated screenshot: %w", err)
		}
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write annotated screenshot: %w", err)
		}
	}

	return output.Print(output.NewUiResult(theApp.activeDeviceID(), client.Platform(), h))
}
