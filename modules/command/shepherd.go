package command

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
)

type RunOpts struct {
	Environ   []string  // As environ
	ExtraEnv  []string  // append to env
	Dir       string    // working directory
	Stderr    io.Writer // stderr
	Stdout    io.Writer // stdout
	Stdin     io.Reader // stdin
	Detached  bool      // Detached If true, the child process will not be terminated when the parent process ends
	NoSetpgid bool
}

// Shepherd tracks the external processes a merge invocation spawns, so a
// cancelled or finished session can report how many are still outstanding.
type Shepherd interface {
	// NewFromOptions creates a command with options.
	NewFromOptions(ctx context.Context, opt *RunOpts, name string, arg ...string) *Command
	// New creates a process rooted at dir with the parent's environment.
	New(ctx context.Context, dir string, name string, arg ...string) *Command
	// ProcessesCount returns the number of child processes still running.
	ProcessesCount() int32
}

type shepherd struct {
	count int32
}

func (s *shepherd) inc() int32 {
	return atomic.AddInt32(&s.count, 1)
}

func (s *shepherd) dec() int32 {
	return atomic.AddInt32(&s.count, -1)
}

func (s *shepherd) ProcessesCount() int32 {
	return atomic.LoadInt32(&s.count)
}

func NewShepherd() Shepherd {
	return &shepherd{}
}

// New new command:
func (s *shepherd) New(ctx context.Context, dir string, name string, arg ...string) *Command {
	return s.NewFromOptions(ctx, &RunOpts{Dir: dir}, name, arg...)
}

func (s *shepherd) NewFromOptions(ctx context.Context, opt *RunOpts, name string, arg ...string) *Command {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Dir = opt.Dir
	if len(opt.Environ) == 0 {
		cmd.Env = append(cmd.Env, os.Environ()...)
	} else {
		cmd.Env = append(cmd.Env, opt.Environ...)
	}
	if len(opt.ExtraEnv) != 0 {
		cmd.Env = append(cmd.Env, opt.ExtraEnv...)
	}
	cmd.Stderr = opt.Stderr
	cmd.Stdout = opt.Stdout
	cmd.Stdin = opt.Stdin
	c := &Command{rawCmd: cmd, context: ctx, s: s, detached: opt.Detached}
	if !opt.NoSetpgid {
		setSysProcAttribute(cmd, c.detached)
	}
	return c
}

var sd = NewShepherd()

// NewFromOptions creates an isolated process based on the default shepherd.
func NewFromOptions(ctx context.Context, opt *RunOpts, name string, arg ...string) *Command {
	return sd.NewFromOptions(ctx, opt, name, arg...)
}

// New creates an isolated process based on the default shepherd.
func New(ctx context.Context, dir string, name string, arg ...string) *Command {
	return sd.New(ctx, dir, name, arg...)
}

// ProcessesCount returns the number of child processes of the default shepherd.
func ProcessesCount() int32 {
	return sd.ProcessesCount()
}
