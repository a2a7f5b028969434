package ios

import (
	"context"
	"strings"
	"testing"
)

type fakeCommander struct {
	responses map[string]string
	calls     []string
}

func (f *fakeCommander) Run(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	return f.responses[key], nil
}

func (f *fakeCommander) RunRaw(ctx context.Context, args ...string) ([]byte, error) {
	out, err := f.Run(ctx, args...)
	return []byte(out), err
}

func (f *fakeCommander) lastCall() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

const deviceListJSON = `{
  "devices": {
    "com.apple.CoreSimulator.SimRuntime.iOS-17-2": [
      {
        "udid": "AAAA-1111",
        "name": "iPhone 15",
        "state": "Booted",
        "isAvailable": true
      },
      {
        "udid": "BBBB-2222",
        "name": "iPhone 15 Pro",
        "state": "Shutdown",
        "isAvailable": true
      },
      {
        "udid": "CCCC-3333",
        "name": "Broken runtime",
        "state": "Shutdown",
        "isAvailable": false
      }
    ],
    "com.apple.CoreSimulator.SimRuntime.watchOS-10-2": [
      {
        "udid": "DDDD-4444",
        "name": "Apple Watch Series 9",
        "state": "Shutdown",
        "isAvailable": true
      }
    ]
  }
}`

func TestDevicesParsing(t *testing.T) {
	simctl := &fakeCommander{responses: map[string]string{
		"list devices --json": deviceListJSON,
	}}
	c := NewClient(simctl, &fakeCommander{})

	devices, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	// Unavailable runtimes are dropped; everything else is listed.
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3: %+v", len(devices), devices)
	}

	booted := devices[0]
	if booted.ID != "AAAA-1111" || booted.Name != "iPhone 15" || !booted.IsSimulator {
		t.Errorf("unexpected booted entry: %+v", booted)
	}
	if booted.State != "booted" || !booted.Usable() {
		t.Errorf("booted state normalization: %+v", booted)
	}
	if devices[1].State != "shutdown" || devices[1].Usable() {
		t.Errorf("shutdown device should not be usable: %+v", devices[1])
	}
}

func TestDevicesUnrecognizableJSON(t *testing.T) {
	simctl := &fakeCommander{responses: map[string]string{
		"list devices --json": "simctl: command failed",
	}}
	c := NewClient(simctl, &fakeCommander{})

	devices, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices from garbage, want 0", len(devices))
	}
}

func TestInputTargetsBootedByDefault(t *testing.T) {
	idb := &fakeCommander{responses: map[string]string{}}
	c := NewClient(&fakeCommander{}, idb)
	ctx := context.Background()

	if err := c.Tap(ctx, 100, 200); err != nil {
		t.Fatal(err)
	}
	if got := idb.lastCall(); got != "ui tap --udid booted 100 200" {
		t.Errorf("default tap = %q", got)
	}

	c.UseDevice("AAAA-1111")
	if err := c.Swipe(ctx, 10, 400, 10, 100, 0); err != nil {
		t.Fatal(err)
	}
	if got := idb.lastCall(); got != "ui swipe --udid AAAA-1111 --duration 0.3 10 400 10 100" {
		t.Errorf("scoped swipe = %q", got)
	}

	if err := c.LongPress(ctx, 50, 60, 1500); err != nil {
		t.Fatal(err)
	}
	if got := idb.lastCall(); got != "ui tap --udid AAAA-1111 --duration 1.5 50 60" {
		t.Errorf("long press = %q", got)
	}
}

func TestPressKey(t *testing.T) {
	idb := &fakeCommander{responses: map[string]string{}}
	c := NewClient(&fakeCommander{}, idb)
	ctx := context.Background()

	tests := []struct {
		key  string
		want string
	}{
		{"enter", "ui key --udid booted 40"},
		{"Backspace", "ui key --udid booted 42"},
		{"home", "ui button --udid booted HOME"},
		{"44", "ui key --udid booted 44"},
	}
	for _, tt := range tests {
		if err := c.PressKey(ctx, tt.key); err != nil {
			t.Fatalf("PressKey(%q): %v", tt.key, err)
		}
		if got := idb.lastCall(); got != tt.want {
			t.Errorf("PressKey(%q) issued %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestAppLifecycle(t *testing.T) {
	simctl := &fakeCommander{responses: map[string]string{}}
	c := NewClient(simctl, &fakeCommander{})
	ctx := context.Background()
	c.UseDevice("AAAA-1111")

	if err := c.LaunchApp(ctx, "com.example.app"); err != nil {
		t.Fatal(err)
	}
	if got := simctl.lastCall(); got != "launch AAAA-1111 com.example.app" {
		t.Errorf("launch = %q", got)
	}

	if err := c.StopApp(ctx, "com.example.app"); err != nil {
		t.Fatal(err)
	}
	if got := simctl.lastCall(); got != "terminate AAAA-1111 com.example.app" {
		t.Errorf("stop = %q", got)
	}

	if err := c.InstallApp(ctx, "/tmp/MyApp.app"); err != nil {
		t.Fatal(err)
	}
	if got := simctl.lastCall(); got != "install AAAA-1111 /tmp/MyApp.app" {
		t.Errorf("install = %q", got)
	}
}

func TestSystemInfo(t *testing.T) {
	simctl := &fakeCommander{responses: map[string]string{
		"list devices --json": deviceListJSON,
	}}
	c := NewClient(simctl, &fakeCommander{})
	c.UseDevice("AAAA-1111")

	info, err := c.SystemInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"iPhone 15", "AAAA-1111", "booted", "iOS 17.2"} {
		if !strings.Contains(info, want) {
			t.Errorf("system info missing %q:\n%s", want, info)
		}
	}
}

func TestSystemInfoUnknownTarget(t *testing.T) {
	simctl := &fakeCommander{responses: map[string]string{
		"list devices --json": deviceListJSON,
	}}
	c := NewClient(simctl, &fakeCommander{})
	c.UseDevice("ZZZZ-9999")

	info, err := c.SystemInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(info, "not available") {
		t.Errorf("expected explanatory text, got %q", info)
	}
}
