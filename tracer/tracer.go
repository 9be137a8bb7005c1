// Package tracer spawns strace against a target command and exposes its
// output as a line stream the trace parser consumes.
package tracer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"golang.org/x/sys/unix"

	"unitharden/errors"
	"unitharden/logging"
)

// maxStringLen is strace's -s argument: large enough that paths and buffers
// are never truncated (the summarizer relies on complete buffer contents).
const maxStringLen = 65536

// Options configures how strace is invoked.
type Options struct {
	// Command is the program to trace, Command[0] its argv[0].
	Command []string
	// TraceFile, if set, is passed to strace's -o so output lands in a
	// file instead of being piped directly; either way Lines() returns
	// the same line stream.
	TraceFile string
	// Binary overrides the strace binary path; defaults to a $PATH lookup.
	Binary string
}

// Session is a running strace invocation.
type Session struct {
	cmd    *exec.Cmd
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
}

// Start spawns strace -f -ttt -yy -s <maxStringLen> -- <command...> and
// begins streaming its output. The caller must call Wait when done
// consuming Lines().
func Start(ctx context.Context, opts Options) (*Session, error) {
	if len(opts.Command) == 0 {
		return nil, errors.New(errors.ErrInvalidConfig, "tracer.Start", "empty command")
	}

	bin := opts.Binary
	if bin == "" {
		var err error
		bin, err = exec.LookPath("strace")
		if err != nil {
			return nil, errors.WrapWithDetail(err, errors.ErrNotFound, "tracer.Start", "strace binary not found on $PATH")
		}
	}

	args := []string{"-f", "-ttt", "-yy", "-s", fmt.Sprint(maxStringLen)}
	var logPath string
	if opts.TraceFile != "" {
		args = append(args, "-o", opts.TraceFile)
		logPath = opts.TraceFile
	}
	args = append(args, "--")
	args = append(args, opts.Command...)

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	s := &Session{cmd: cmd, lines: make(chan string, 256), errs: make(chan error, 1), cancel: cancel}

	var src io.Reader
	if opts.TraceFile != "" {
		// strace writes to the file directly; the trace lines become
		// available only once it exits, or as it's written to for a
		// tail-following caller. This tool reads it after Wait.
		cmd.Stderr = os.Stderr
	} else {
		stderr, err := cmd.StderrPipe()
		if err != nil {
			cancel()
			return nil, errors.Wrap(err, errors.ErrInternal, "tracer.Start")
		}
		src = stderr
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.WrapWithDetail(err, errors.ErrInternal, "tracer.Start", "failed to start strace")
	}

	log := logging.Default()
	if logPath != "" {
		log = logging.WithTraceFile(log, logPath)
	}
	log.Info("tracer started", "pid", cmd.Process.Pid, "command", opts.Command)

	go forwardSignals(runCtx, cmd)

	if opts.TraceFile == "" {
		go s.pump(src)
	} else {
		go s.pumpFile(runCtx, opts.TraceFile)
	}

	return s, nil
}

// pump copies strace's stderr (where -ttt -yy output lands without -o) into
// Lines(), one line at a time, until EOF.
func (s *Session) pump(r io.Reader) {
	defer close(s.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		s.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		s.errs <- errors.Wrap(err, errors.ErrIO, "tracer.pump")
	}
}

// pumpFile waits for strace to exit, then reads the whole trace file and
// feeds its lines through the same channel. strace truncates and owns the
// file for the process lifetime, so streaming it live would race its
// writes; the simpler, correct approach is to wait for the writer to finish.
func (s *Session) pumpFile(ctx context.Context, path string) {
	defer close(s.lines)
	_ = s.cmd.Wait()
	f, err := os.Open(path)
	if err != nil {
		s.errs <- errors.WrapWithDetail(err, errors.ErrIO, "tracer.pumpFile", path)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		s.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		s.errs <- errors.Wrap(err, errors.ErrIO, "tracer.pumpFile")
	}
}

// forwardSignals relays SIGINT/SIGQUIT/SIGTERM to strace's process group so
// both it and the traced program exit cleanly together.
func forwardSignals(ctx context.Context, cmd *exec.Cmd) {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch, unix.SIGINT, unix.SIGQUIT, unix.SIGTERM)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			if cmd.Process != nil {
				unix.Kill(-cmd.Process.Pid, sig.(unix.Signal))
			}
		}
	}
}

// Lines returns the channel of trace output lines. It closes when strace
// exits and all buffered output has been delivered.
func (s *Session) Lines() <-chan string {
	return s.lines
}

// Errs returns the channel of errors encountered while reading strace's
// output; at most one error is ever sent.
func (s *Session) Errs() <-chan error {
	return s.errs
}

// Wait reaps the strace subprocess, returning its exit error if any.
func (s *Session) Wait() error {
	defer s.cancel()
	if s.cmd.ProcessState != nil {
		return nil
	}
	err := s.cmd.Wait()
	if err != nil {
		return errors.WrapWithDetail(err, errors.ErrInternal, "tracer.Wait", "strace exited abnormally")
	}
	return nil
}
