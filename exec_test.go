//go:build linux

package platformcheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestRunCommand(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("exit code and output", func(t *testing.T) {
		res, err := runCommand(context.Background(), 5*time.Second, "", "/bin/sh", "-c", "echo out; echo err >&2; exit 7")
		if err != nil {
			t.Fatalf("runCommand() error = %v", err)
		}
		if res.ExitCode != 7 {
			t.Errorf("ExitCode = %d, want 7", res.ExitCode)
		}
		if res.Stdout != "out\n" || res.Stderr != "err\n" {
			t.Errorf("Stdout = %q, Stderr = %q", res.Stdout, res.Stderr)
		}
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		res, err := runCommand(context.Background(), 5*time.Second, dir, "/bin/sh", "-c", "pwd")
		if err != nil {
			t.Fatalf("runCommand() error = %v", err)
		}
		want, _ := filepath.EvalSymlinks(dir)
		if got, _ := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout)); got != want {
			t.Errorf("pwd = %q, want %q", got, want)
		}
	})

	t.Run("child sees utf-8 io encoding", func(t *testing.T) {
		res, err := runCommand(context.Background(), 5*time.Second, "", "/bin/sh", "-c", "echo $PYTHONIOENCODING")
		if err != nil {
			t.Fatalf("runCommand() error = %v", err)
		}
		if got := strings.TrimSpace(res.Stdout); got != "utf-8:replace" {
			t.Errorf("PYTHONIOENCODING = %q", got)
		}
	})

	t.Run("timeout kills the process group", func(t *testing.T) {
		marker := filepath.Join(t.TempDir(), "survived")
		// The grandchild would create the marker if it outlived the timeout.
		script := "(sleep 2; touch " + marker + ") & sleep 30"

		start := time.Now()
		_, err := runCommand(context.Background(), 200*time.Millisecond, "", "/bin/sh", "-c", script)
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("runCommand() error = %v, want ErrTimeout", err)
		}
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond+waitDelay+time.Second {
			t.Errorf("runCommand() returned after %s", elapsed)
		}

		time.Sleep(2500 * time.Millisecond)
		if _, err := os.Stat(marker); err == nil {
			t.Error("grandchild outlived the timeout")
		}
	})

	t.Run("cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)
		_, err := runCommand(ctx, 30*time.Second, "", "/bin/sh", "-c", "sleep 30")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("runCommand() error = %v, want context.Canceled", err)
		}
	})

	t.Run("spawn error", func(t *testing.T) {
		_, err := runCommand(context.Background(), time.Second, "", filepath.Join(t.TempDir(), "nope"))
		if err == nil || errors.Is(err, ErrTimeout) {
			t.Fatalf("runCommand() error = %v, want spawn error", err)
		}
	})
}

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("ok\n"), "ok\n"},
		{"utf-8", []byte("φ ≈ r₀"), "φ ≈ r₀"},
		{"invalid byte", []byte{'a', 0xff, 'b'}, "a�b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeOutput(tt.in); got != tt.want {
				t.Errorf("decodeOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTailLines(t *testing.T) {
	in := "Traceback (most recent call last):\n  File \"x.py\"\n\nValueError: bad\r\n"
	got := tailLines(in, 2)
	want := []string{`  File "x.py"`, "ValueError: bad"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tailLines() mismatch (-want +got):\n%s", diff)
	}
}
