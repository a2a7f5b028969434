// Package ios drives iOS simulators through simctl and idb.
package ios

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// Commander runs one tool invocation and returns its combined output.
type Commander interface {
	Run(ctx context.Context, args ...string) (string, error)
	RunRaw(ctx context.Context, args ...string) ([]byte, error)
}

// ExecCommander shells out to a fixed binary with an optional argument
// prefix. Simctl is reached as `xcrun simctl ...`, idb directly. Env
// entries are appended to the process environment.
type ExecCommander struct {
	Bin    string
	Prefix []string
	Env    []string
}

// Simctl returns a commander for `xcrun simctl`. An empty xcrunPath
// resolves "xcrun" from PATH.
func Simctl(xcrunPath string) *ExecCommander {
	if xcrunPath == "" {
		xcrunPath = "xcrun"
	}
	return &ExecCommander{Bin: xcrunPath, Prefix: []string{"simctl"}}
}

// IDB returns a commander for the idb CLI. An empty path resolves "idb"
// from PATH; a non-empty companion address is exported as IDB_COMPANION so
// idb talks to an already-running companion instead of spawning one.
func IDB(path, companion string) *ExecCommander {
	if path == "" {
		path = "idb"
	}
	c := &ExecCommander{Bin: path}
	if companion != "" {
		c.Env = []string{"IDB_COMPANION=" + companion}
	}
	return c
}

func (c *ExecCommander) Run(ctx context.Context, args ...string) (string, error) {
	out, err := c.RunRaw(ctx, args...)
	return strings.TrimSpace(string(out)), err
}

func (c *ExecCommander) RunRaw(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, c.Prefix...), args...)
	cmd := exec.CommandContext(ctx, c.Bin, full...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, &platform.UnavailableError{Platform: model.PlatformIOS, Err: err}
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	described := c.Bin + " " + strings.Join(full, " ")
	return stdout.Bytes(), &platform.CommandError{Command: described, Err: errors.New(msg)}
}
