package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/output"
	"github.com/mj1618/device-cli/internal/platform"
)

var tapCmd = &cobra.Command{
	Use:   "tap",
	Short: "Tap an element or a coordinate",
	Long: "Tap by element --text, --id, --index (from the last `ui` dump), or raw\n" +
		"--x/--y coordinates in logical pixels. Text matches prefer the first\n" +
		"clickable element; otherwise the first match in document order wins.",
	RunE: runTap,
}

func init() {
	rootCmd.AddCommand(tapCmd)
	tapCmd.Flags().String("text", "", "Tap the element matching this text (case-insensitive substring)")
	tapCmd.Flags().String("id", "", "Tap the element whose resource id contains this value")
	tapCmd.Flags().Int("index", -1, "Tap the element at this index from the last ui dump")
	tapCmd.Flags().Int("x", -1, "Tap X coordinate (logical pixels)")
	tapCmd.Flags().Int("y", -1, "Tap Y coordinate (logical pixels)")
}

type tapResult struct {
	OK      bool             `yaml:"ok"                json:"ok"`
	X       int              `yaml:"x"                 json:"x"`
	Y       int              `yaml:"y"                 json:"y"`
	Element *model.UiElement `yaml:"element,omitempty" json:"element,omitempty"`
}

func runTap(cmd *cobra.Command, args []string) error {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	text, _ := cmd.Flags().GetString("text")
	id, _ := cmd.Flags().GetString("id")
	index, _ := cmd.Flags().GetInt("index")

	el, client, err := theApp.resolveTapTarget(cmd.Context(), text, id, index)
	if err != nil {
		return err
	}
	if el != nil {
		x, y = el.CenterX, el.CenterY
	} else if x < 0 || y < 0 {
		return fmt.Errorf("pass --text, --id, --index, or both --x and --y")
	} else {
		// Coordinate taps echo the snapshot element under the point, when
		// one is known, so the caller can confirm what was hit.
		el = theApp.session.elementAt(x, y)
	}
	if client == nil {
		if client, err = theApp.resolveClient(cmd.Context()); err != nil {
			return err
		}
	}

	if err := client.Tap(cmd.Context(), x, y); err != nil {
		return err
	}
	return output.Print(tapResult{OK: true, X: x, Y: y, Element: el})
}

// resolveTapTarget turns a locator flag into a concrete element. Index
// lookups use the session snapshot; text and id lookups fetch a fresh
// hierarchy so the match reflects the current screen.
func (a *app) resolveTapTarget(ctx context.Context, text, id string, index int) (*model.UiElement, platform.Client, error) {
	switch {
	case index >= 0:
		el, err := a.session.resolveIndex(index)
		return el, nil, err
	case text != "":
		h, client, err := a.fetchHierarchy(ctx)
		if err != nil {
			return nil, nil, err
		}
		el := model.ResolveTarget(model.FindByText(h.Elements, text))
		if el == nil {
			return nil, nil, &platform.ElementNotFoundError{Query: text}
		}
		return el, client, nil
	case id != "":
		h, client, err := a.fetchHierarchy(ctx)
		if err != nil {
			return nil, nil, err
		}
		el := model.ResolveTarget(model.FindByResourceID(h.Elements, id))
		if el == nil {
			return nil, nil, &platform.ElementNotFoundError{Query: id}
		}
		return el, client, nil
	}
	return nil, nil, nil
}
