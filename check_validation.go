package platformcheck

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// stderrTailLines is how much child stderr is echoed on failure.
const stderrTailLines = 5

func (c *Checker) checkMiniValidation(ctx context.Context) bool {
	c.out.Section("Mini Validation Test")
	c.out.Detail("Testing data validation...")

	script := c.manifest.Validation.Script
	res, err := c.python.RunScript(ctx, c.root, script, c.timeout)
	c.log.Debug("validation script finished",
		zap.String("script", script),
		zap.Int("exit_code", res.ExitCode),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrTimeout):
		c.out.Fail("Data validation: TIMEOUT (after %s)", c.timeout)
		return false
	case err != nil:
		c.out.Fail("Data validation: ERROR - %v", err)
		return false
	case res.ExitCode != 0:
		c.out.Fail("Data validation: FAILED")
		c.out.Detail("   Exit code: %d", res.ExitCode)
		for _, l := range tailLines(res.Stderr, stderrTailLines) {
			c.out.Detail("   | %s", l)
		}
		return false
	}

	c.out.Pass("Data validation: PASSED")
	return true
}
