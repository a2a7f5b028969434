// Package android drives Android devices through adb.
package android

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// Commander runs one adb invocation and returns its combined output. It is
// the process-spawning collaborator boundary: everything above it is
// parsing and dispatch.
type Commander interface {
	Run(ctx context.Context, args ...string) (string, error)
	// RunRaw is Run without output trimming, for binary payloads
	// (exec-out screencap).
	RunRaw(ctx context.Context, args ...string) ([]byte, error)
}

// ExecCommander shells out to the adb binary.
type ExecCommander struct {
	Path string // empty = resolve "adb" from PATH
}

func (c *ExecCommander) binary() string {
	if c.Path != "" {
		return c.Path
	}
	return "adb"
}

func (c *ExecCommander) Run(ctx context.Context, args ...string) (string, error) {
	out, err := c.RunRaw(ctx, args...)
	return strings.TrimSpace(string(out)), err
}

func (c *ExecCommander) RunRaw(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	described := "adb " + strings.Join(args, " ")
	if errors.Is(err, exec.ErrNotFound) {
		return nil, &platform.UnavailableError{Platform: model.PlatformAndroid, Err: err}
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return stdout.Bytes(), &platform.CommandError{Command: described, Err: errors.New(msg)}
}
