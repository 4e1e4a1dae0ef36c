//go:build unix

package platformcheck

import (
	"errors"
	"os"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// localeVars are consulted in POSIX precedence order.
var localeVars = []string{"LC_ALL", "LC_CTYPE", "LANG"}

// osRelease returns the kernel release string (e.g., "6.1.0-generic").
func osRelease() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uname.Release[:])
}

// isExecutable reports whether the current user may execute path.
func isExecutable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}

// consoleEncoding reports the locale's character set and whether it is UTF-8.
func consoleEncoding() (string, bool) {
	for _, name := range localeVars {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		return v, strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8")
	}
	return "POSIX", false
}

// setupConsole is a no-op: Unix terminals take their encoding from the locale.
func setupConsole() error {
	return nil
}

// childProcAttr places children in their own process group so the whole
// tree can be killed on timeout.
func childProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree sends SIGKILL to the process group led by p.
func killProcessTree(p *os.Process) error {
	if p == nil || p.Pid <= 0 {
		return nil
	}
	err := unix.Kill(-p.Pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return p.Kill()
	}
	return err
}
