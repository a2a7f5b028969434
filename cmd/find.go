package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/output"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search the current UI for matching elements",
	Long: "Fetch a fresh hierarchy and return the elements matching the given\n" +
		"criteria. All criteria are conjunctive; --clickable narrows to\n" +
		"elements that accept a tap.",
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("text", "", "Case-insensitive substring on text or content description")
	findCmd.Flags().String("id", "", "Substring on resource id")
	findCmd.Flags().String("class", "", "Substring on class / element type")
	findCmd.Flags().Bool("clickable", false, "Only clickable elements")
	findCmd.Flags().Int("limit", 0, "Max elements to return (0 = unlimited)")
}

func runFind(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	id, _ := cmd.Flags().GetString("id")
	class, _ := cmd.Flags().GetString("class")
	limit, _ := cmd.Flags().GetInt("limit")

	if text == "" && id == "" && class == "" && !cmd.Flags().Changed("clickable") {
		return fmt.Errorf("pass at least one of --text, --id, --class, --clickable")
	}

	q := model.Query{Text: text, ResourceID: id, Class: class}
	if cmd.Flags().Changed("clickable") {
		clickable, _ := cmd.Flags().GetBool("clickable")
		q.Clickable = &clickable
	}

	h, client, err := theApp.fetchHierarchy(cmd.Context())
	if err != nil {
		return err
	}
	matches := model.FindElements(h.Elements, q)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	result := output.NewUiResult(theApp.activeDeviceID(), client.Platform(), h)
	result.Elements = matches
	return output.Print(result)
}
