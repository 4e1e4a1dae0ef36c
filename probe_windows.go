//go:build windows

package platformcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

const codePageUTF8 = 65001

// osRelease returns the Windows version as major.minor.build.
func osRelease() string {
	v := windows.RtlGetVersion()
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber)
}

// isExecutable reports whether path has an extension listed in PATHEXT.
func isExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".com;.exe;.bat;.cmd"
	}
	for _, e := range strings.Split(strings.ToLower(pathext), ";") {
		if e == ext {
			return true
		}
	}
	return false
}

// consoleEncoding reports the console output code page.
func consoleEncoding() (string, bool) {
	cp, err := windows.GetConsoleOutputCP()
	if err != nil {
		return "unknown", false
	}
	if cp == codePageUTF8 {
		return "utf-8", true
	}
	return fmt.Sprintf("cp%d", cp), false
}

// setupConsole switches the console output code page to UTF-8.
func setupConsole() error {
	return windows.SetConsoleOutputCP(codePageUTF8)
}

func childProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

func killProcessTree(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
