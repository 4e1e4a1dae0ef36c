package platformcheck

import (
	"bytes"
	"context"
	"os"
	"strings"
)

func (c *Checker) checkColab(context.Context) bool {
	c.out.Section("Colab-Specific Check")

	nb := c.manifest.Colab.Notebook
	content, err := os.ReadFile(c.path(nb))
	if err != nil {
		c.out.Fail("Colab notebook not found: %s", nb)
		return false
	}
	c.out.Pass("Colab notebook exists")

	if !strings.Contains(string(content), c.manifest.Colab.Marker) {
		c.out.Warn("Theory tests may not be in notebook")
		return false
	}
	c.out.Pass("Theory tests integrated in notebook")
	return true
}

// checkWSL is informational: its findings never fail the run.
func (c *Checker) checkWSL(context.Context) bool {
	c.out.Section("WSL-Specific Check")

	mount := c.manifest.WSL.Mount
	if _, err := os.Stat(mount); err == nil {
		c.out.Pass("%s accessible (Windows drives mounted)", mount)
	} else {
		c.out.Fail("%s not found", mount)
	}

	file := c.manifest.WSL.LineEndingFile
	if data, err := os.ReadFile(c.path(file)); err == nil {
		if bytes.Contains(data, []byte("\r\n")) {
			c.out.Warn("CRLF line endings detected in %s (Windows-style)", file)
			c.out.Detail("May cause issues with shebang (#!)")
		} else {
			c.out.Pass("LF line endings (Unix-style)")
		}
	}
	return true
}

// checkWindows is informational: its findings never fail the run.
func (c *Checker) checkWindows(context.Context) bool {
	c.out.Section("Windows-Specific Check")

	name, isUTF8 := consoleEncoding()
	c.out.Detail("Console encoding: %s", name)
	if isUTF8 {
		c.out.Pass("UTF-8 encoding configured")
	} else {
		c.out.Warn("Non-UTF-8 encoding (may cause display issues)")
		c.out.Detail("   Output is written as UTF-8 regardless")
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "Unknown"
	}
	c.out.Detail("Shell: %s", shell)
	return true
}
