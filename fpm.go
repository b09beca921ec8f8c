package gateway

import (
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Worker is the supervised backend process. The gateway owns its
// whole process group for the life of the run; the group is signaled
// exactly once, on shutdown.
type Worker struct {
	cmd    *exec.Cmd
	logger *zap.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// StartWorker launches the backend with its default config discovery
// disabled (-n) and an explicit config file (-y), as leader of a
// fresh process group so children it spawns are reclaimed with it.
// A spawn failure is fatal: the gateway must not begin serving.
func StartWorker(opt *FpmOptions, logger *zap.Logger) (*Worker, error) {
	cmd := exec.Command(opt.Bin, "-n", "-y", opt.ConfigPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to spawn %s", opt.Bin)
	}

	w := &Worker{
		cmd:    cmd,
		logger: logger,
		done:   make(chan struct{}),
	}
	go func() {
		// reap so an exited worker does not linger as a zombie
		_ = cmd.Wait()
		close(w.done)
	}()

	logger.Info("worker started",
		zap.String("bin", opt.Bin),
		zap.String("config", opt.ConfigPath),
		zap.Int("pid", cmd.Process.Pid),
	)
	return w, nil
}

func (w *Worker) Pid() int {
	return w.cmd.Process.Pid
}

// Done is closed once the worker process has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Shutdown signals the worker's entire process group to terminate.
// Best effort: a failed signal is logged and the gateway still exits.
func (w *Worker) Shutdown() {
	w.stopOnce.Do(func() {
		pid := w.cmd.Process.Pid
		if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
			w.logger.Error("failed to signal worker process group",
				zap.Int("pid", pid),
				zap.Error(err),
			)
			return
		}
		w.logger.Info("worker process group signaled", zap.Int("pid", pid))
	})
}
