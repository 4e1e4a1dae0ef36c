package platformcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// waitDelay bounds how long Wait keeps draining pipes after the child is
// killed; grandchildren holding stdout open must not stall a probe.
const waitDelay = 2 * time.Second

// childEnv is appended to the inherited environment of every child.
var childEnv = []string{"PYTHONIOENCODING=utf-8:replace"}

// commandResult is what a finished child process left behind.
type commandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// runCommand runs name with args in dir and waits at most timeout.
//
// A non-zero exit is reported through ExitCode with a nil error. The error is
// non-nil only when the child could not be started ("spawn error"), exceeded
// timeout ([ErrTimeout]) or ctx was canceled (context.Canceled).
func runCommand(ctx context.Context, timeout time.Duration, dir, name string, args ...string) (commandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), childEnv...)
	cmd.SysProcAttr = childProcAttr()
	cmd.Cancel = func() error {
		return killProcessTree(cmd.Process)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := commandResult{
		ExitCode: -1,
		Stdout:   decodeOutput(stdout.Bytes()),
		Stderr:   decodeOutput(stderr.Bytes()),
	}

	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return res, fmt.Errorf("%s: %w after %s", name, ErrTimeout, timeout)
	case errors.Is(ctxErr, context.Canceled):
		return res, fmt.Errorf("%s: %w", name, ctxErr)
	}

	if runErr == nil {
		res.ExitCode = 0
		return res, nil
	}
	var ee *exec.ExitError
	if errors.As(runErr, &ee) {
		res.ExitCode = ee.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("start %s: %w", name, runErr)
}

// decodeOutput converts child output to valid UTF-8, substituting U+FFFD
// for undecodable bytes.
func decodeOutput(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}

// tailLines returns the last n non-empty lines of s.
func tailLines(s string, n int) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimRight(l, "\r"))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
