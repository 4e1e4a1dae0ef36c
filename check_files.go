package platformcheck

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// path resolves a manifest path against the project root.
func (c *Checker) path(rel string) string {
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

func absPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func (c *Checker) checkFileStructure(context.Context) bool {
	c.out.Section("File Structure Check")

	allExist := true
	for _, f := range c.manifest.RequiredFiles {
		if _, err := os.Stat(c.path(f.Path)); err != nil {
			c.out.Fail("%s: MISSING - %s", f.Label, f.Path)
			allExist = false
			continue
		}
		c.out.Pass("%s: %s", f.Label, f.Path)
	}
	return allExist
}

func (c *Checker) checkDataFiles(context.Context) bool {
	c.out.Section("Data Files Check")

	criticalMissing := false
	for _, f := range c.manifest.DataFiles {
		info, err := os.Stat(c.path(f.Path))
		if err == nil {
			c.out.Pass("%s: %s (%s bytes)", f.Label, f.Path, humanize.Comma(info.Size()))
			continue
		}
		if f.Critical {
			c.out.Fail("%s: MISSING (CRITICAL) - %s", f.Label, f.Path)
			criticalMissing = true
			continue
		}
		c.out.Warn("%s: not found (optional) - %s", f.Label, f.Path)
	}

	if criticalMissing && c.manifest.DataHint != "" {
		c.out.Hint("Generate missing data:", c.manifest.DataHint)
	}
	return !criticalMissing
}

func (c *Checker) checkPathSeparators(env Environment) bool {
	c.out.Section("Path Separator Check")

	testPath := filepath.Join("test", "subdir", "file.txt")
	expected, actual := "/", "/"
	if env == EnvironmentWindows {
		expected = `\`
	}
	if strings.Contains(testPath, `\`) {
		actual = `\`
	}

	c.out.Detail("Environment: %s", env)
	c.out.Detail("Expected separator: %s", expected)
	c.out.Detail("Actual separator: %s", actual)
	c.out.Detail("Test path: %s", testPath)

	if !env.IsUnix() {
		c.out.Pass("Path handling correct (path/filepath)")
		return true
	}
	if !strings.Contains(testPath, "/") {
		c.out.Fail("Path separators incorrect")
		return false
	}
	c.out.Pass("Path separators correct for %s", env)
	return true
}

func (c *Checker) checkExecutablePermissions(env Environment) bool {
	c.out.Section("Executable Permissions Check")

	if !env.IsUnix() {
		c.out.Info("Not applicable on %s", env)
		return true
	}

	allOK := true
	for _, script := range c.manifest.Executables {
		p := c.path(script)
		if _, err := os.Stat(p); err != nil {
			c.out.Fail("%s: not found", script)
			allOK = false
			continue
		}
		if !isExecutable(p) {
			c.out.Warn("%s: not executable (can still run with 'python %s')", script, script)
			continue
		}
		c.out.Pass("%s: executable", script)
	}
	return allOK
}
