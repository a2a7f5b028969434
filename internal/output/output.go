package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/device-cli/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// UiResult is the top-level output of the `ui` and `find` commands.
type UiResult struct {
	Device   string            `yaml:"device,omitempty" json:"device,omitempty"`
	Platform string            `yaml:"platform"         json:"platform"`
	TS       int64             `yaml:"ts"               json:"ts"`
	Scale    float64           `yaml:"scale,omitempty"  json:"scale,omitempty"`
	Elements []model.UiElement `yaml:"elements"         json:"elements"`
}

// DeviceResult is the top-level output of the `devices` command.
type DeviceResult struct {
	Active  string         `yaml:"active,omitempty" json:"active,omitempty"`
	Devices []model.Device `yaml:"devices"          json:"devices"`
}

// NewUiResult stamps a hierarchy for printing.
func NewUiResult(device string, platform model.Platform, h *model.UiHierarchy) UiResult {
	return UiResult{
		Device:   device,
		Platform: string(platform),
		TS:       time.Now().Unix(),
		Scale:    h.ScaleFactor,
		Elements: h.Elements,
	}
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
