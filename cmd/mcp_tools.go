package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/output"
	"github.com/mj1618/device-cli/internal/platform"
	"github.com/mj1618/device-cli/internal/screenshot"
)

// Argument helpers. MCP arguments arrive as map[string]any with JSON
// number semantics (float64).

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argInt(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func argBool(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// jsonResult marshals v into a single text content block.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

func okResult(format string, a ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf(format, a...))},
	}
}

func (s *mcpServer) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.app.router.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(output.DeviceResult{
		Active:  s.app.activeDeviceID(),
		Devices: devices,
	})
}

func (s *mcpServer) handleUseDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id := argString(args, "device_id")
	hint := model.Platform(argString(args, "platform"))
	if id == "" && hint == "" {
		return nil, fmt.Errorf("device_id or platform is required")
	}
	if hint != "" && !hint.Valid() {
		return nil, fmt.Errorf("unsupported platform: %s", hint)
	}

	device, err := s.app.router.SetDevice(ctx, id, hint)
	if err != nil {
		return nil, err
	}
	return jsonResult(device)
}

func (s *mcpServer) handleScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	raw := argBool(args, "raw")

	var result *screenshot.Result
	var indexed int
	if argBool(args, "annotate") {
		var err error
		result, indexed, err = s.annotatedScreenshot(ctx, raw)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		result, err = s.app.router.Screenshot(ctx, "", !raw, s.app.screenshotOptions())
		if err != nil {
			return nil, err
		}
	}

	contents := []mcp.Content{
		mcp.NewImageContent(base64.StdEncoding.EncodeToString(result.Data), result.MIMEType),
	}
	info := fmt.Sprintf("%dx%d, %d bytes, scale %.2f", result.Width, result.Height, len(result.Data), result.ScaleFactor)
	if result.Oversize {
		info += " (over the configured size budget; best effort)"
	}
	if indexed > 0 {
		info += fmt.Sprintf("; %d ui elements indexed", indexed)
	}
	contents = append(contents, mcp.NewTextContent(info))
	return &mcp.CallToolResult{Content: contents}, nil
}

// annotatedScreenshot captures the screen with every element's index drawn
// over its bounding box. It refreshes the session snapshot first, so the
// drawn indices match what tap accepts next.
func (s *mcpServer) annotatedScreenshot(ctx context.Context, raw bool) (*screenshot.Result, int, error) {
	h, client, err := s.app.fetchHierarchy(ctx)
	if err != nil {
		return nil, 0, err
	}
	capture, err := client.ScreenshotRaw(ctx)
	if err != nil {
		return nil, 0, err
	}
	img, _, err := image.Decode(bytes.NewReader(capture))
	if err != nil {
		return nil, 0, fmt.Errorf("decode screenshot for annotation: %w", err)
	}
	annotated := screenshot.Annotate(img, h.Elements, h.ScaleFactor)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, annotated, imaging.PNG); err != nil {
		return nil, 0, fmt.Errorf("encode annotated screenshot: %w", err)
	}
	if raw {
		b := annotated.Bounds()
		return screenshot.Uncompressed(buf.Bytes(), b.Dx(), b.Dy(), h.ScaleFactor), len(h.Elements), nil
	}
	return screenshot.Compress(buf.Bytes(), s.app.screenshotOptions()), len(h.Elements), nil
}

func (s *mcpServer) handleGetUi(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, client, err := s.app.fetchHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(output.NewUiResult(s.app.activeDeviceID(), client.Platform(), h))
}

func (s *mcpServer) handleFindElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	q := model.Query{
		Text:       argString(args, "text"),
		ResourceID: argString(args, "id"),
		Class:      argString(args, "class"),
	}
	if v, ok := args["clickable"].(bool); ok {
		q.Clickable = &v
	}

	h, _, err := s.app.fetchHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(model.FindElements(h.Elements, q))
}

func (s *mcpServer) handleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	x := argInt(args, "x", -1)
	y := argInt(args, "y", -1)

	el, client, err := s.resolveTarget(ctx, args)
	if err != nil {
		return nil, err
	}
	if el != nil {
		x, y = el.CenterX, el.CenterY
	} else if x < 0 || y < 0 {
		return nil, fmt.Errorf("pass text, id, index, or both x and y")
	}
	if client == nil {
		if client, err = s.app.resolveClient(ctx); err != nil {
			return nil, err
		}
	}

	if err := client.Tap(ctx, x, y); err != nil {
		return nil, err
	}
	if el != nil {
		return okResult("tapped %q at (%d, %d)", el.Label(), x, y), nil
	}
	return okResult("tapped (%d, %d)", x, y), nil
}

func (s *mcpServer) handleLongPress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	x := argInt(args, "x", -1)
	y := argInt(args, "y", -1)
	duration := argInt(args, "duration_ms", 1000)

	el, client, err := s.resolveTarget(ctx, args)
	if err != nil {
		return nil, err
	}
	if el != nil {
		x, y = el.CenterX, el.CenterY
	} else if x < 0 || y < 0 {
		return nil, fmt.Errorf("pass text, id, index, or both x and y")
	}
	if client == nil {
		if client, err = s.app.resolveClient(ctx); err != nil {
			return nil, err
		}
	}

	if err := client.LongPress(ctx, x, y, duration); err != nil {
		return nil, err
	}
	if el != nil {
		return okResult("long-pressed %q at (%d, %d) for %dms", el.Label(), x, y, duration), nil
	}
	return okResult("long-pressed (%d, %d) for %dms", x, y, duration), nil
}

// resolveTarget maps the shared text/id/index arguments onto an element,
// mirroring the CLI locator semantics.
func (s *mcpServer) resolveTarget(ctx context.Context, args map[string]any) (*model.UiElement, platform.Client, error) {
	return s.app.resolveTapTarget(ctx,
		argString(args, "text"),
		argString(args, "id"),
		argInt(args, "index", -1))
}

func (s *mcpServer) handleSwipe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	x1 := argInt(args, "from_x", -1)
	y1 := argInt(args, "from_y", -1)
	x2 := argInt(args, "to_x", -1)
	y2 := argInt(args, "to_y", -1)
	if x1 < 0 || y1 < 0 || x2 < 0 || y2 < 0 {
		return nil, fmt.Errorf("from_x, from_y, to_x, to_y are required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.Swipe(ctx, x1, y1, x2, y2, argInt(args, "duration_ms", 300)); err != nil {
		return nil, err
	}
	return okResult("swiped (%d, %d) -> (%d, %d)", x1, y1, x2, y2), nil
}

func (s *mcpServer) handleInputText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := argString(request.GetArguments(), "text")
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.InputText(ctx, text); err != nil {
		return nil, err
	}
	return okResult("typed %d characters", len(text)), nil
}

func (s *mcpServer) handlePressKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := argString(request.GetArguments(), "key")
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.PressKey(ctx, key); err != nil {
		return nil, err
	}
	return okResult("pressed %s", key), nil
}

func (s *mcpServer) handleLaunchApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID := argString(request.GetArguments(), "app_id")
	if appID == "" {
		return nil, fmt.Errorf("app_id is required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.LaunchApp(ctx, appID); err != nil {
		return nil, err
	}
	return okResult("launched %s", appID), nil
}

func (s *mcpServer) handleStopApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID := argString(request.GetArguments(), "app_id")
	if appID == "" {
		return nil, fmt.Errorf("app_id is required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.StopApp(ctx, appID); err != nil {
		return nil, err
	}
	return okResult("stopped %s", appID), nil
}

func (s *mcpServer) handleInstallApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := argString(request.GetArguments(), "path")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.InstallApp(ctx, path); err != nil {
		var unsupported *platform.UnsupportedError
		if errors.As(err, &unsupported) {
			return okResult("%s", unsupported.Error()), nil
		}
		return nil, err
	}
	return okResult("installed %s", path), nil
}

func (s *mcpServer) handleShell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := argString(request.GetArguments(), "command")
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.Shell(ctx, command)
	if err != nil {
		return nil, err
	}
	return okResult("%s", out), nil
}

func (s *mcpServer) handleGetLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.Logs(ctx, platform.LogOptions{
		Filter:   argString(args, "filter"),
		MaxLines: argInt(args, "max_lines", 0),
	})
	if err != nil {
		return nil, err
	}
	return okResult("%s", out), nil
}

func (s *mcpServer) handleClearLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.ClearLogs(ctx); err != nil {
		return nil, err
	}
	return okResult("logs cleared"), nil
}

func (s *mcpServer) handleSystemInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.app.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	info, err := client.SystemInfo(ctx)
	if err != nil {
		return nil, err
	}
	return okResult("%s", info), nil
}

func (s *mcpServer) handleListWindows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.app.desktop.Windows().WindowListResult(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *mcpServer) handleCheckPermissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.app.desktop.Accessibility().CheckPermissions(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(status)
}
