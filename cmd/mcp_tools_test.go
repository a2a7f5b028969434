package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// scriptedClient is a minimal backend for MCP handler tests.
type scriptedClient struct {
	capture   []byte
	hierarchy *model.UiHierarchy
	tappedX   int
	tappedY   int
}

func (f *scriptedClient) Platform() model.Platform { return model.PlatformAndroid }

func (f *scriptedClient) Devices(ctx context.Context) ([]model.Device, error) {
	return []model.Device{{ID: "emulator-5554", Platform: model.PlatformAndroid, State: "device"}}, nil
}

func (f *scriptedClient) UseDevice(id string) {}

func (f *scriptedClient) ScreenshotRaw(ctx context.Context) ([]byte, error) {
	return f.capture, nil
}

func (f *scriptedClient) ScaleFactor(ctx context.Context) float64 { return 1 }

func (f *scriptedClient) Tap(ctx context.Context, x, y int) error {
	f.tappedX, f.tappedY = x, y
	return nil
}

func (f *scriptedClient) LongPress(ctx context.Context, x, y, durationMs int) error  { return nil }
func (f *scriptedClient) Swipe(ctx context.Context, x1, y1, x2, y2, durMs int) error { return nil }
func (f *scriptedClient) InputText(ctx context.Context, text string) error           { return nil }
func (f *scriptedClient) PressKey(ctx context.Context, key string) error             { return nil }

func (f *scriptedClient) Hierarchy(ctx context.Context) (*model.UiHierarchy, error) {
	return f.hierarchy, nil
}

func (f *scriptedClient) LaunchApp(ctx context.Context, appID string) error           { return nil }
func (f *scriptedClient) StopApp(ctx context.Context, appID string) error             { return nil }
func (f *scriptedClient) InstallApp(ctx context.Context, path string) error           { return nil }
func (f *scriptedClient) Shell(ctx context.Context, command string) (string, error)   { return "", nil }
func (f *scriptedClient) Logs(ctx context.Context, o platform.LogOptions) (string, error) {
	return "", nil
}
func (f *scriptedClient) ClearLogs(ctx context.Context) error            { return nil }
func (f *scriptedClient) SystemInfo(ctx context.Context) (string, error) { return "", nil }

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func scriptedServer(t *testing.T, client *scriptedClient) (*mcpServer, *app) {
	t.Helper()
	a := &app{
		router:  platform.NewRouter(client),
		session: newSession(),
	}
	srv, err := newMCPServer(a)
	if err != nil {
		t.Fatal(err)
	}
	return srv, a
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestHandleScreenshot_AnnotateDrawsIndexedOverlay(t *testing.T) {
	capture := encodePNG(t, 64, 64)
	client := &scriptedClient{
		capture: capture,
		hierarchy: model.NewHierarchy([]model.UiElement{
			{Text: "OK", Bounds: model.Rect{X: 4, Y: 4, Width: 24, Height: 12}, Clickable: true},
		}, nil, 1),
	}
	srv, a := scriptedServer(t, client)

	res, err := srv.handleScreenshot(context.Background(),
		callRequest(map[string]any{"annotate": true, "raw": true}))
	if err != nil {
		t.Fatalf("handleScreenshot: %v", err)
	}
	if len(res.Content) != 2 {
		t.Fatalf("expected image plus info text, got %d blocks", len(res.Content))
	}

	img, ok := res.Content[0].(mcp.ImageContent)
	if !ok {
		t.Fatalf("first block should be an image, got %T", res.Content[0])
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		t.Fatalf("image payload is not base64: %v", err)
	}
	if bytes.Equal(data, capture) {
		t.Error("annotated image should differ from the raw capture")
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("annotated raw image should still be PNG: %v", err)
	}

	info, ok := res.Content[1].(mcp.TextContent)
	if !ok {
		t.Fatalf("second block should be text, got %T", res.Content[1])
	}
	if !strings.Contains(info.Text, "1 ui elements indexed") {
		t.Errorf("info should report indexed elements, got %q", info.Text)
	}

	// Annotation refreshes the session, so the drawn index is tappable.
	if _, err := a.session.resolveIndex(0); err != nil {
		t.Errorf("session should hold the annotated snapshot: %v", err)
	}
}

func TestHandleScreenshot_AnnotateCompressesByDefault(t *testing.T) {
	client := &scriptedClient{
		capture: encodePNG(t, 64, 64),
		hierarchy: model.NewHierarchy([]model.UiElement{
			{Text: "OK", Bounds: model.Rect{X: 4, Y: 4, Width: 24, Height: 12}},
		}, nil, 1),
	}
	srv, _ := scriptedServer(t, client)

	res, err := srv.handleScreenshot(context.Background(),
		callRequest(map[string]any{"annotate": true}))
	if err != nil {
		t.Fatalf("handleScreenshot: %v", err)
	}
	img, ok := res.Content[0].(mcp.ImageContent)
	if !ok {
		t.Fatalf("first block should be an image, got %T", res.Content[0])
	}
	if img.MIMEType != "image/jpeg" {
		t.Errorf("annotated screenshot should pass through the compressor, got %s", img.MIMEType)
	}
}

func TestHandleTap_ByTextReportsLabel(t *testing.T) {
	client := &scriptedClient{
		hierarchy: model.NewHierarchy([]model.UiElement{
			{Text: "Submit", Bounds: model.Rect{X: 10, Y: 20, Width: 40, Height: 20}, Clickable: true},
		}, nil, 1),
	}
	srv, _ := scriptedServer(t, client)

	res, err := srv.handleTap(context.Background(),
		callRequest(map[string]any{"text": "submit"}))
	if err != nil {
		t.Fatalf("handleTap: %v", err)
	}
	if client.tappedX != 30 || client.tappedY != 30 {
		t.Errorf("tap should land on the element center, got (%d, %d)", client.tappedX, client.tappedY)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text result, got %T", res.Content[0])
	}
	if !strings.Contains(text.Text, `"Submit"`) {
		t.Errorf("tap feedback should name the element, got %q", text.Text)
	}
}
