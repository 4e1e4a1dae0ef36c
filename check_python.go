package platformcheck

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

func (c *Checker) checkPythonVersion(ctx context.Context) bool {
	c.out.Section("Python Version Check")

	constraint, err := c.manifest.MinVersion()
	if err != nil {
		c.out.Fail("FAIL: %v", err)
		return false
	}
	v, err := c.python.SemVer(ctx)
	if err != nil {
		c.log.Debug("python version query failed", zap.Error(err))
		c.out.Fail("FAIL: %v", err)
		return false
	}

	c.out.Detail("Version: %s", v)
	if !constraint.Check(v) {
		c.out.Fail("FAIL: Python %s+ required", c.manifest.Python.MinVersion)
		return false
	}
	c.out.Pass("PASS: Python version compatible")
	return true
}

func (c *Checker) checkDependencies(ctx context.Context) bool {
	c.out.Section("Dependency Check")

	var missing []string
	for _, pkg := range c.manifest.Python.Packages {
		if err := c.python.Import(ctx, pkg); err != nil {
			if ctx.Err() != nil {
				return false
			}
			c.log.Debug("import failed", zap.String("package", pkg), zap.Error(err))
			c.out.Fail("%s: MISSING", pkg)
			missing = append(missing, pkg)
			continue
		}
		c.out.Pass("%s: installed", pkg)
	}

	if len(missing) > 0 {
		c.out.Hint("Install missing packages:", InstallCommand(missing))
		return false
	}
	return true
}

// InstallCommand returns the pip command installing packages.
func InstallCommand(packages []string) string {
	return "pip install " + strings.Join(packages, " ")
}
