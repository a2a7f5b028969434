package platform

import (
	"fmt"
	"strings"

	"github.com/mj1618/device-cli/internal/model"
)

// NoActiveDeviceError means no device is selected and none could be
// auto-resolved from the connected set.
type NoActiveDeviceError struct{}

func (e *NoActiveDeviceError) Error() string {
	return "no active device: connect a device or select one with 'use' (or the use_device tool)"
}

// DeviceNotFoundError means an explicitly requested device id matched
// nothing in the current enumeration.
type DeviceNotFoundError struct {
	ID string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found: %q (run 'devices' to list connected devices)", e.ID)
}

// WindowNotFoundError means a window id was absent from the latest
// enumeration pass.
type WindowNotFoundError struct {
	ID string
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("window not found: %q", e.ID)
}

// ElementNotFoundError means a locator query matched zero elements.
type ElementNotFoundError struct {
	Query string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element found matching %q", e.Query)
}

// PermissionRequiredError carries the ordered remediation steps a human
// operator must perform before introspection can work. It is the one error
// class expected to require action outside the automation loop.
type PermissionRequiredError struct {
	Instructions []string
}

func (e *PermissionRequiredError) Error() string {
	if len(e.Instructions) == 0 {
		return "accessibility permission required"
	}
	return "accessibility permission required:\n  " + strings.Join(e.Instructions, "\n  ")
}

// UnsupportedError means the resolved backend has no implementation of the
// requested feature. Command surfaces report it as an explanatory result,
// not a failure: the agent should move on, not retry.
type UnsupportedError struct {
	Feature  string
	Platform model.Platform
	Hint     string
}

func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("%s is not supported on the %s target", e.Feature, e.Platform)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// CommandError means a backend collaborator call failed. It carries the
// offending command description for diagnosis but never a raw stack trace.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("backend command failed: %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// UnavailableError means a backend's toolchain (adb, simctl) is missing or
// unreachable. The Router treats it as "no devices from this backend" — an
// ordinary branch, not a failure of the whole enumeration.
type UnavailableError struct {
	Platform model.Platform
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Platform, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
