package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/device-cli/internal/version"
)

// mcpServer exposes the unified command surface as MCP tools. It shares the
// process-wide app, so a device selected by one tool call stays active for
// the next.
type mcpServer struct {
	app *app
	mcp *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer creates and configures an MCP server with all device-cli tools.
func newMCPServer(a *app) (*mcpServer, error) {
	s := &mcpServer{
		app: a,
		mcp: mcpserver.NewMCPServer("device-cli", version.Version),
	}
	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// devices
	s.mcp.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List connected Android devices, iOS simulators, and the local desktop target"),
		),
		s.handleListDevices,
	)
	s.mcp.AddTool(
		mcp.NewTool("use_device",
			mcp.WithDescription("Select the device subsequent tools target. Pass a device id from list_devices, or a platform to pick its first usable device."),
			mcp.WithString("device_id", mcp.Description("Device id to activate")),
			mcp.WithString("platform", mcp.Description("Fallback platform: android, ios, desktop")),
		),
		s.handleUseDevice,
	)

	// screen
	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the active device's screen. Returns a base64 image compressed to the configured size budget unless raw is set."),
			mcp.WithBoolean("raw", mcp.Description("Skip compression, return the original PNG")),
			mcp.WithBoolean("annotate", mcp.Description("Overlay element indices from a fresh UI dump")),
		),
		s.handleScreenshot,
	)
	s.mcp.AddTool(
		mcp.NewTool("get_ui",
			mcp.WithDescription("Dump the current UI hierarchy as a flat, indexed element list. Indices stay valid for tap until the next dump."),
		),
		s.handleGetUi,
	)
	s.mcp.AddTool(
		mcp.NewTool("find_elements",
			mcp.WithDescription("Search the current UI for elements matching all given criteria"),
			mcp.WithString("text", mcp.Description("Case-insensitive substring on text or content description")),
			mcp.WithString("id", mcp.Description("Substring on resource id")),
			mcp.WithString("class", mcp.Description("Substring on class / element type")),
			mcp.WithBoolean("clickable", mcp.Description("Only clickable elements")),
		),
		s.handleFindElements,
	)

	// input
	s.mcp.AddTool(
		mcp.NewTool("tap",
			mcp.WithDescription("Tap an element by text, resource id, or index from the last get_ui, or a raw coordinate in logical pixels. Text matches prefer the first clickable element."),
			mcp.WithString("text", mcp.Description("Tap the element matching this text")),
			mcp.WithString("id", mcp.Description("Tap the element whose resource id contains this value")),
			mcp.WithNumber("index", mcp.Description("Tap the element at this index from the last get_ui")),
			mcp.WithNumber("x", mcp.Description("Tap X coordinate")),
			mcp.WithNumber("y", mcp.Description("Tap Y coordinate")),
		),
		s.handleTap,
	)
	s.mcp.AddTool(
		mcp.NewTool("long_press",
			mcp.WithDescription("Long-press an element or coordinate"),
			mcp.WithString("text", mcp.Description("Target element text")),
			mcp.WithString("id", mcp.Description("Target element resource id (substring)")),
			mcp.WithNumber("index", mcp.Description("Target element index from the last get_ui")),
			mcp.WithNumber("x", mcp.Description("X coordinate")),
			mcp.WithNumber("y", mcp.Description("Y coordinate")),
			mcp.WithNumber("duration_ms", mcp.Description("Press duration in milliseconds (default 1000)")),
		),
		s.handleLongPress,
	)
	s.mcp.AddTool(
		mcp.NewTool("swipe",
			mcp.WithDescription("Swipe between two coordinates in logical pixels"),
			mcp.WithNumber("from_x", mcp.Required(), mcp.Description("Start X")),
			mcp.WithNumber("from_y", mcp.Required(), mcp.Description("Start Y")),
			mcp.WithNumber("to_x", mcp.Required(), mcp.Description("End X")),
			mcp.WithNumber("to_y", mcp.Required(), mcp.Description("End Y")),
			mcp.WithNumber("duration_ms", mcp.Description("Swipe duration in milliseconds (default 300)")),
		),
		s.handleSwipe,
	)
	s.mcp.AddTool(
		mcp.NewTool("input_text",
			mcp.WithDescription("Type text into the focused field"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
		),
		s.handleInputText,
	)
	s.mcp.AddTool(
		mcp.NewTool("press_key",
			mcp.WithDescription("Press a named key (home, back, enter, tab, delete, ...). Unknown names pass through to the backend."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Key name")),
		),
		s.handlePressKey,
	)

	// apps
	s.mcp.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription("Launch an app: package name on Android, bundle id on iOS, executable path on the desktop"),
			mcp.WithString("app_id", mcp.Required(), mcp.Description("App identifier")),
		),
		s.handleLaunchApp,
	)
	s.mcp.AddTool(
		mcp.NewTool("stop_app",
			mcp.WithDescription("Stop a running app"),
			mcp.WithString("app_id", mcp.Required(), mcp.Description("App identifier")),
		),
		s.handleStopApp,
	)
	s.mcp.AddTool(
		mcp.NewTool("install_app",
			mcp.WithDescription("Install an application package (.apk or .app bundle)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Package path on the host")),
		),
		s.handleInstallApp,
	)

	// diagnostics
	s.mcp.AddTool(
		mcp.NewTool("shell",
			mcp.WithDescription("Run a shell command on the active device"),
			mcp.WithString("command", mcp.Required(), mcp.Description("Command to run")),
		),
		s.handleShell,
	)
	s.mcp.AddTool(
		mcp.NewTool("get_logs",
			mcp.WithDescription("Fetch device logs"),
			mcp.WithString("filter", mcp.Description("Only lines containing this substring")),
			mcp.WithNumber("max_lines", mcp.Description("Max lines to return")),
		),
		s.handleGetLogs,
	)
	s.mcp.AddTool(
		mcp.NewTool("clear_logs",
			mcp.WithDescription("Clear the device log buffer"),
		),
		s.handleClearLogs,
	)
	s.mcp.AddTool(
		mcp.NewTool("get_system_info",
			mcp.WithDescription("Show system information for the active device"),
		),
		s.handleSystemInfo,
	)

	// desktop surfaces
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List the visible top-level windows of the desktop target"),
		),
		s.handleListWindows,
	)
	s.mcp.AddTool(
		mcp.NewTool("check_permissions",
			mcp.WithDescription("Check desktop accessibility permissions. When denied, returns remediation instructions."),
		),
		s.handleCheckPermissions,
	)
}
