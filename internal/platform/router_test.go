package platform

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/screenshot"
)

// fakeClient is a scriptable backend for Router tests.
type fakeClient struct {
	platform   model.Platform
	devices    []model.Device
	devicesErr error
	usedDevice string
	capture    []byte
	scale      float64
}

func (f *fakeClient) Platform() model.Platform { return f.platform }

func (f *fakeClient) Devices(ctx context.Context) ([]model.Device, error) {
	if f.devicesErr != nil {
		return nil, f.devicesErr
	}
	return f.devices, nil
}

func (f *fakeClient) UseDevice(id string) { f.usedDevice = id }

func (f *fakeClient) ScreenshotRaw(ctx context.Context) ([]byte, error) {
	if f.capture == nil {
		return nil, &CommandError{Command: "screencap", Err: errors.New("no capture scripted")}
	}
	return f.capture, nil
}

func (f *fakeClient) ScaleFactor(ctx context.Context) float64 {
	if f.scale <= 0 {
		return 1
	}
	return f.scale
}

func (f *fakeClient) Tap(ctx context.Context, x, y int) error                       { return nil }
func (f *fakeClient) LongPress(ctx context.Context, x, y, durationMs int) error     { return nil }
func (f *fakeClient) Swipe(ctx context.Context, x1, y1, x2, y2, durMs int) error    { return nil }
func (f *fakeClient) InputText(ctx context.Context, text string) error              { return nil }
func (f *fakeClient) PressKey(ctx context.Context, key string) error                { return nil }
func (f *fakeClient) Hierarchy(ctx context.Context) (*model.UiHierarchy, error)     { return model.NewHierarchy(nil, nil, 1), nil }
func (f *fakeClient) LaunchApp(ctx context.Context, appID string) error             { return nil }
func (f *fakeClient) StopApp(ctx context.Context, appID string) error               { return nil }
func (f *fakeClient) InstallApp(ctx context.Context, path string) error             { return nil }
func (f *fakeClient) Shell(ctx context.Context, command string) (string, error)     { return "", nil }
func (f *fakeClient) Logs(ctx context.Context, opts LogOptions) (string, error)     { return "", nil }
func (f *fakeClient) ClearLogs(ctx context.Context) error                           { return nil }
func (f *fakeClient) SystemInfo(ctx context.Context) (string, error)                { return "", nil }

func TestResolveClient_NoDevices(t *testing.T) {
	r := NewRouter(&fakeClient{platform: model.PlatformAndroid})

	_, err := r.ResolveClient(context.Background(), "")

	var noActive *NoActiveDeviceError
	if !errors.As(err, &noActive) {
		t.Fatalf("expected NoActiveDeviceError, got %v", err)
	}
}

func TestResolveClient_ImplicitActivation(t *testing.T) {
	android := &fakeClient{
		platform: model.PlatformAndroid,
		devices: []model.Device{
			{ID: "emulator-5554", Platform: model.PlatformAndroid, State: "device"},
			{ID: "offline-1", Platform: model.PlatformAndroid, State: "offline"},
		},
	}
	r := NewRouter(android)

	client, err := r.ResolveClient(context.Background(), "")
	if err != nil {
		t.Fatalf("ResolveClient: %v", err)
	}
	if client.Platform() != model.PlatformAndroid {
		t.Errorf("expected android client, got %s", client.Platform())
	}

	active := r.ActiveDevice()
	if active == nil || active.ID != "emulator-5554" {
		t.Fatalf("expected implicit activation of emulator-5554, got %+v", active)
	}
	if android.usedDevice != "emulator-5554" {
		t.Errorf("expected backend to be informed of selection, got %q", android.usedDevice)
	}
}

func TestResolveClient_AmbiguousDevices(t *testing.T) {
	r := NewRouter(&fakeClient{
		platform: model.PlatformAndroid,
		devices: []model.Device{
			{ID: "a", Platform: model.PlatformAndroid, State: "device"},
			{ID: "b", Platform: model.PlatformAndroid, State: "device"},
		},
	})

	_, err := r.ResolveClient(context.Background(), "")

	var noActive *NoActiveDeviceError
	if !errors.As(err, &noActive) {
		t.Fatalf("two usable devices must not auto-select; got %v", err)
	}
}

func TestResolveClient_ExplicitHintNeedsNoDevice(t *testing.T) {
	ios := &fakeClient{platform: model.PlatformIOS}
	r := NewRouter(ios)

	client, err := r.ResolveClient(context.Background(), model.PlatformIOS)
	if err != nil {
		t.Fatalf("hinted resolution should not require a device: %v", err)
	}
	if client.Platform() != model.PlatformIOS {
		t.Errorf("expected ios client, got %s", client.Platform())
	}
	if r.ActiveDevice() != nil {
		t.Error("hinted resolution must not mutate active-device state")
	}
}

func TestResolveClient_UsesActiveDevicePlatform(t *testing.T) {
	android := &fakeClient{
		platform: model.PlatformAndroid,
		devices:  []model.Device{{ID: "pixel", Platform: model.PlatformAndroid, State: "device"}},
	}
	ios := &fakeClient{platform: model.PlatformIOS}
	r := NewRouter(android, ios)

	if _, err := r.SetDevice(context.Background(), "pixel", ""); err != nil {
		t.Fatalf("SetDevice: %v", err)
	}
	client, err := r.ResolveClient(context.Background(), "")
	if err != nil {
		t.Fatalf("ResolveClient: %v", err)
	}
	if client.Platform() != model.PlatformAndroid {
		t.Errorf("expected active device's platform, got %s", client.Platform())
	}
}

func TestSetDevice_NotFound(t *testing.T) {
	r := NewRouter(&fakeClient{platform: model.PlatformAndroid})

	_, err := r.SetDevice(context.Background(), "nonexistent-id", "")

	var notFound *DeviceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DeviceNotFoundError, got %v", err)
	}
	if notFound.ID != "nonexistent-id" {
		t.Errorf("error should carry the requested id, got %q", notFound.ID)
	}
}

func TestSetDevice_PlatformFallback(t *testing.T) {
	ios := &fakeClient{
		platform: model.PlatformIOS,
		devices: []model.Device{
			{ID: "shutdown-udid", Platform: model.PlatformIOS, State: "shutdown", IsSimulator: true},
			{ID: "booted-udid", Platform: model.PlatformIOS, State: "booted", IsSimulator: true},
		},
	}
	r := NewRouter(ios)

	device, err := r.SetDevice(context.Background(), "no-such-id", model.PlatformIOS)
	if err != nil {
		t.Fatalf("SetDevice with platform fallback: %v", err)
	}
	if device.ID != "booted-udid" {
		t.Errorf("expected first usable ios device, got %q", device.ID)
	}
}

func TestListDevices_ToleratesUnavailableBackend(t *testing.T) {
	android := &fakeClient{
		platform:   model.PlatformAndroid,
		devicesErr: &UnavailableError{Platform: model.PlatformAndroid, Err: errors.New("adb not found")},
	}
	ios := &fakeClient{
		platform: model.PlatformIOS,
		devices:  []model.Device{{ID: "sim", Platform: model.PlatformIOS, State: "booted"}},
	}
	r := NewRouter(android, ios)

	devices, err := r.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("unavailable backend must not fail the enumeration: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "sim" {
		t.Errorf("expected only the ios device, got %+v", devices)
	}
}

func TestListDevices_PropagatesRealErrors(t *testing.T) {
	r := NewRouter(&fakeClient{
		platform:   model.PlatformAndroid,
		devicesErr: &CommandError{Command: "adb devices -l", Err: errors.New("boom")},
	})

	if _, err := r.ListDevices(context.Background()); err == nil {
		t.Fatal("non-unavailability backend errors must propagate")
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestScreenshot_Uncompressed(t *testing.T) {
	r := NewRouter(&fakeClient{platform: model.PlatformAndroid, capture: testPNG(t, 64, 32)})

	res, err := r.Screenshot(context.Background(), model.PlatformAndroid, false, screenshot.Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if res.MIMEType != screenshot.MIMEPNG {
		t.Errorf("uncompressed result must be png, got %s", res.MIMEType)
	}
	if res.Width != 64 || res.Height != 32 {
		t.Errorf("expected reported dimensions 64x32, got %dx%d", res.Width, res.Height)
	}
}

func TestScreenshot_UncompressedCarriesBackendScale(t *testing.T) {
	r := NewRouter(&fakeClient{
		platform: model.PlatformAndroid,
		capture:  testPNG(t, 1080, 2400),
		scale:    2.75,
	})

	res, err := r.Screenshot(context.Background(), model.PlatformAndroid, false, screenshot.Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if res.ScaleFactor != 2.75 {
		t.Errorf("expected the backend's scale factor, got %v", res.ScaleFactor)
	}
}

func TestScreenshot_Compressed(t *testing.T) {
	r := NewRouter(&fakeClient{platform: model.PlatformAndroid, capture: testPNG(t, 1600, 1200)})

	res, err := r.Screenshot(context.Background(), model.PlatformAndroid, true, screenshot.DefaultOptions())
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if res.MIMEType != screenshot.MIMEJPEG {
		t.Errorf("compressed result must be jpeg, got %s", res.MIMEType)
	}
	if res.Width != 800 || res.Height != 600 {
		t.Errorf("expected dimension cap to 800x600, got %dx%d", res.Width, res.Height)
	}
}
