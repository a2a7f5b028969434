package desktop

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/mj1618/device-cli/internal/proc"
)

// stopSignal is the polite shutdown request sent before the supervisor's
// grace period starts.
var stopSignal os.Signal = syscall.SIGTERM

// ExecLauncher starts a desktop application as a direct child process so
// the supervisor owns a real handle to signal. appID is the executable
// followed by optional arguments.
type ExecLauncher struct{}

func (ExecLauncher) Launch(ctx context.Context, appID string) (proc.Handle, error) {
	fields := strings.Fields(appID)
	cmd := exec.Command(fields[0], fields[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &execHandle{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()
	return h, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (h *execHandle) Stop() error {
	return h.cmd.Process.Signal(stopSignal)
}

func (h *execHandle) Kill() error {
	return h.cmd.Process.Kill()
}

func (h *execHandle) Done() <-chan struct{} { return h.done }
