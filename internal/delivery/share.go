package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
)

// exitCancelled is the conventional exit status of a dismissed share dialog
// (128 + SIGINT).
const exitCancelled = 130

// CommandSharer hands the payload to an external share program, e.g. a
// desktop share portal CLI. The file path is appended to Args.
type CommandSharer struct {
	Command []string
	Accept  []string
	TempDir string

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

var _ Sharer = (*CommandSharer)(nil)

// NewCommandSharer creates a sharer for command accepting the given MIME types.
func NewCommandSharer(command []string, accept []string) *CommandSharer {
	return &CommandSharer{
		Command:  command,
		Accept:   accept,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (s *CommandSharer) Name() string {
	if len(s.Command) == 0 {
		return "command"
	}
	return filepath.Base(s.Command[0])
}

// CanShare reports whether the command exists and accepts p's type.
func (s *CommandSharer) CanShare(p Payload) bool {
	if len(s.Command) == 0 || !slices.Contains(s.Accept, p.MIME) {
		return false
	}
	_, err := s.lookPath(s.Command[0])
	return err == nil
}

// Share stages the payload in a temp file and runs the command on it.
func (s *CommandSharer) Share(ctx context.Context, p Payload, req ShareRequest) error {
	dir, err := os.MkdirTemp(s.TempDir, "swipematch-share-")
	if err != nil {
		return fmt.Errorf("stage payload: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(p.Filename))
	if err := os.WriteFile(path, p.Data, 0o600); err != nil {
		return fmt.Errorf("stage payload: %w", err)
	}

	args := append(slices.Clone(s.Command[1:]), path)
	err = s.run(ctx, s.Command[0], args...)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitCancelled {
		return ErrShareCancelled
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return ErrShareCancelled
	}
	return err
}
