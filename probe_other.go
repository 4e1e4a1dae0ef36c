//go:build !unix && !windows

package platformcheck

import (
	"os"
	"syscall"
)

func osRelease() string { return "" }

// isExecutable falls back to the permission bits.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

func consoleEncoding() (string, bool) { return "unknown", false }

func setupConsole() error { return nil }

func childProcAttr() *syscall.SysProcAttr { return nil }

func killProcessTree(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
