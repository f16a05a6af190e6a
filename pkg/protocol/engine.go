package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrEngineExited is returned when the engine closes its stdout.
var ErrEngineExited = errors.New("engine exited")

// Engine wraps an engine subprocess. Commands go to its stdin and its
// stdout is read line by line.
type Engine struct {
	path string
	args []string

	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan line

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	exited chan struct{}
	status int
}

type line struct {
	text string
	err  error
}

// NewEngine creates an Engine for the given binary. The process is not
// started until Start is called.
func NewEngine(path string, args ...string) *Engine {
	return &Engine{
		path: path,
		args: args,
	}
}

// Start launches the subprocess. The context bounds the process lifetime.
func (e *Engine) Start(ctx context.Context) error {
	e.cmd = exec.CommandContext(ctx, e.path, e.args...)

	var err error
	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("protocol: stdin pipe: %w", err)
	}
	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("protocol: stdout pipe: %w", err)
	}

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("protocol: start %s: %w", e.path, err)
	}

	e.lines = make(chan line, 16)
	e.done = make(chan struct{})
	e.exited = make(chan struct{})

	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		e.pump(stdout)
	}()
	go func() {
		// Wait closes stdout, so let the pump see EOF first.
		<-pumped
		err := e.cmd.Wait()
		e.mu.Lock()
		e.status = exitStatus(e.cmd, err)
		e.mu.Unlock()
		close(e.exited)
	}()
	return nil
}

// pump forwards stdout lines until the pipe closes or Close is called.
func (e *Engine) pump(r io.Reader) {
	defer close(e.lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case e.lines <- line{text: sc.Text()}:
		case <-e.done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		select {
		case e.lines <- line{err: fmt.Errorf("protocol: read engine output: %w", err)}:
		case <-e.done:
		}
	}
}

// Send writes one command to the engine's stdin.
func (e *Engine) Send(c Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.stdin == nil {
		return fmt.Errorf("protocol: engine %s is closed", e.path)
	}
	if _, err := fmt.Fprintf(e.stdin, "%s\n", c); err != nil {
		return fmt.Errorf("protocol: send %s: %w", c.Name, err)
	}
	return nil
}

// Next waits for the engine's next command. Malformed lines are returned
// as *SyntaxError; a closed stdout yields ErrEngineExited.
func (e *Engine) Next(ctx context.Context) (Command, error) {
	select {
	case l, ok := <-e.lines:
		if !ok {
			return Command{}, ErrEngineExited
		}
		if l.err != nil {
			return Command{}, l.err
		}
		return Parse(l.text)
	case <-ctx.Done():
		return Command{}, fmt.Errorf("protocol: waiting for engine: %w", ctx.Err())
	}
}

// Close closes stdin and waits for the process to exit. If it does not exit
// within the grace period it is killed. Close returns the exit status.
func (e *Engine) Close(grace time.Duration) int {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return e.ExitStatus()
	}
	e.closed = true
	if e.done != nil {
		close(e.done)
	}
	if e.stdin != nil {
		e.stdin.Close()
	}
	e.mu.Unlock()

	if e.exited == nil {
		return -1
	}
	select {
	case <-e.exited:
	case <-time.After(grace):
		log.Warn().Str("engine", e.path).Dur("grace", grace).Msg("Engine did not exit, killing")
		if e.cmd != nil && e.cmd.Process != nil {
			e.cmd.Process.Kill()
		}
		<-e.exited
	}
	return e.ExitStatus()
}

// Exited is closed once the process has terminated.
func (e *Engine) Exited() <-chan struct{} {
	return e.exited
}

// ExitStatus returns the process exit code, or -1 while it is running or
// when it was killed by a signal.
func (e *Engine) ExitStatus() int {
	if e.exited == nil {
		return -1
	}
	select {
	case <-e.exited:
	default:
		return -1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func exitStatus(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
