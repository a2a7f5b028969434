package model

// Platform identifies which backend owns a device.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformDesktop Platform = "desktop"
)

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformAndroid, PlatformIOS, PlatformDesktop:
		return true
	}
	return false
}

// Device describes one enumerated device. Devices are recreated on every
// enumeration call; the ID string is backend-defined and opaque to the core
// (an adb serial, a simulator UDID, or the synthetic desktop id).
type Device struct {
	ID          string   `yaml:"id"          json:"id"`
	Name        string   `yaml:"name"        json:"name"`
	Platform    Platform `yaml:"platform"    json:"platform"`
	State       string   `yaml:"state"       json:"state"`
	IsSimulator bool     `yaml:"isSimulator" json:"isSimulator"`
}

// usableStates are the backend state strings that mean a device can accept
// commands right now. Anything else (offline, shutdown, unauthorized) is
// listed but never auto-selected.
var usableStates = map[string]bool{
	"device":  true,
	"booted":  true,
	"running": true,
}

// Usable reports whether the device is in a state that accepts commands.
// The comparison is exact on the backend's own state string.
func (d Device) Usable() bool {
	return usableStates[d.State]
}
