package command

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewCommand(t *testing.T) {
	cmd := New(context.Background(), ".", "echo", "hello")
	line, err := cmd.OneLine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v", err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\nCount: %d\n", line, ProcessesCount())
}

func TestNewCommand2(t *testing.T) {
	var stdout strings.Builder
	cmd := NewFromOptions(context.Background(), &RunOpts{Dir: ".", Stdout: &stdout}, "echo", "hello")
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v", err)
		return
	}
	fmt.Fprintf(os.Stderr, "[%s]\nCount: %d\n", stdout.String(), ProcessesCount())
	if err := cmd.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v", err)
		return
	}
	fmt.Fprintf(os.Stderr, "[%s]\nCount: %d\n", stdout.String(), ProcessesCount())
}

func TestNewCommandNotFound(t *testing.T) {
	cmd := New(context.Background(), ".", "definitely-not-a-real-binary---")
	b, err := cmd.Output()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\nCount: %d\n", FromError(err), ProcessesCount())
		return
	}
	fmt.Fprintf(os.Stderr, "%s\nCount: %d\n", b, ProcessesCount())
}

func TestWaitTimeout(t *testing.T) {
	newCtx, cancelCtx := context.WithTimeout(context.Background(), time.Second*4)
	defer cancelCtx()
	cmd := NewFromOptions(newCtx, &RunOpts{
		Stderr: os.Stderr,
		Stdout: os.Stdout,
	}, "sleep", "10")
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\nCount: %d\n", FromError(err), ProcessesCount())
		return
	}
}
