package wrapper

// Runs a workload under a named timer.
// The workload's own exit status is reported, never interpreted.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/psantana5/perfy/pkg/perf"
)

// Command describes the workload to spawn
type Command struct {
	Path   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome is one timed execution of a Command
type Outcome struct {
	Name     string
	Index    int
	ExitCode int // -1 when the process could not be started
	Err      error
	Result   *perf.Result
}

// Failed reports whether the workload did not start or exited non-zero
func (o Outcome) Failed() bool {
	return o.Err != nil || o.ExitCode != 0
}

// Run executes cmd once under a timer kept in reg as name
func Run(ctx context.Context, reg *perf.Registry, name string, cmd Command) Outcome {
	out := Outcome{Name: name}

	res, err := reg.Measure(name, func() {
		c := build(ctx, cmd)
		if err := c.Start(); err != nil {
			out.ExitCode, out.Err = -1, fmt.Errorf("failed to start: %w", err)
			return
		}
		out.ExitCode, out.Err = exitStatus(c.Wait())
	})
	if err != nil {
		return Outcome{Name: name, ExitCode: -1, Err: err}
	}

	out.Result = res
	return out
}

// RunConcurrent starts one copy of cmd per name at once. Each copy is timed
// asynchronously; its timer ends when the process exits. Outcomes are
// returned in the order of names.
func RunConcurrent(ctx context.Context, reg *perf.Registry, names []string, cmd Command) []Outcome {
	outcomes := make([]Outcome, len(names))
	cmd = shareOutput(cmd)
	var wg sync.WaitGroup

	for i, name := range names {
		i, name := i, name
		outcomes[i] = Outcome{Name: name, Index: i}

		wg.Add(1)
		_, err := reg.MeasureAsync(name, func(done perf.DoneFunc) {
			c := build(ctx, cmd)
			if err := c.Start(); err != nil {
				res, _ := done()
				outcomes[i].Result = res
				outcomes[i].ExitCode, outcomes[i].Err = -1, fmt.Errorf("failed to start: %w", err)
				wg.Done()
				return
			}

			go func() {
				defer wg.Done()
				waitErr := c.Wait()
				res, doneErr := done()
				outcomes[i].Result = res
				outcomes[i].ExitCode, outcomes[i].Err = exitStatus(waitErr)
				if outcomes[i].Err == nil {
					outcomes[i].Err = doneErr
				}
			}()
		})
		if err != nil {
			outcomes[i].ExitCode, outcomes[i].Err = -1, err
			wg.Done()
		}
	}

	wg.Wait()
	return outcomes
}

// lockedWriter serializes writes to a writer shared by several processes
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// shareOutput puts stdout and stderr behind one lock so the copy goroutines
// of concurrent processes never write at the same time. Files are passed to
// the child directly and need no lock.
func shareOutput(cmd Command) Command {
	mu := &sync.Mutex{}
	wrap := func(w io.Writer) io.Writer {
		if w == nil {
			return nil
		}
		if _, ok := w.(*os.File); ok {
			return w
		}
		return lockedWriter{mu: mu, w: w}
	}
	cmd.Stdout = wrap(cmd.Stdout)
	cmd.Stderr = wrap(cmd.Stderr)
	return cmd
}

func build(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = nil
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return c
}

// exitStatus maps a Wait error to an exit code. A non-zero exit is not an error.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
