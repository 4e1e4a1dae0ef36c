package platformcheck

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

// queryTimeout bounds interpreter queries (version, imports). Importing
// heavy packages such as matplotlib can take several seconds on a cold cache.
const queryTimeout = 30 * time.Second

const versionScript = `import sys; print("%d.%d.%d" % sys.version_info[:3])`

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// DefaultPython returns the interpreter name conventional for this OS.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Python runs queries against an external Python interpreter.
type Python struct {
	// Path is the interpreter executable, looked up in PATH if relative.
	Path string
	// Dir is the working directory for import queries, so project-local
	// modules resolve as they do for scripts. Empty means the process's.
	Dir string

	// The version never changes for a given interpreter, so it is resolved once.
	mu       sync.Mutex
	resolved bool
	version  string
	err      error
}

// NewPython returns a client for the interpreter at path.
func NewPython(path string) *Python {
	if path == "" {
		path = DefaultPython()
	}
	return &Python{Path: path}
}

func (p *Python) executable() (string, error) {
	exe, err := exec.LookPath(p.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, p.Path, err)
	}
	// Children may run from another directory.
	abs, err := filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, p.Path, err)
	}
	return abs, nil
}

// Version returns the interpreter's major.minor.micro version.
func (p *Python) Version(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved {
		return p.version, p.err
	}
	p.version, p.err = p.queryVersion(ctx)
	// Interrupted queries say nothing about the interpreter.
	if ctx.Err() == nil {
		p.resolved = true
	}
	return p.version, p.err
}

func (p *Python) queryVersion(ctx context.Context) (string, error) {
	exe, err := p.executable()
	if err != nil {
		return "", err
	}
	res, err := runCommand(ctx, queryTimeout, "", exe, "-c", versionScript)
	if err != nil {
		return "", fmt.Errorf("query version: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("query version: %s exited with code %d", p.Path, res.ExitCode)
	}
	v := versionPattern.FindString(res.Stdout)
	if v == "" {
		return "", fmt.Errorf("query version: unexpected output %q", strings.TrimSpace(res.Stdout))
	}
	return v, nil
}

// SemVer returns the interpreter version parsed for constraint checks.
func (p *Python) SemVer(ctx context.Context) (*semver.Version, error) {
	v, err := p.Version(ctx)
	if err != nil {
		return nil, err
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", v, err)
	}
	return sv, nil
}

// Import reports whether module can be imported; nil means it can.
func (p *Python) Import(ctx context.Context, module string) error {
	exe, err := p.executable()
	if err != nil {
		return err
	}
	res, err := runCommand(ctx, queryTimeout, p.Dir, exe, "-c", "import "+module)
	if err != nil {
		return fmt.Errorf("import %s: %w", module, err)
	}
	if res.ExitCode != 0 {
		if last := tailLines(res.Stderr, 1); len(last) > 0 {
			return fmt.Errorf("%w: %s: %s", ErrImportFailed, module, last[0])
		}
		return fmt.Errorf("%w: %s", ErrImportFailed, module)
	}
	return nil
}

// RunScript runs script with the interpreter from dir, waiting at most timeout.
func (p *Python) RunScript(ctx context.Context, dir, script string, timeout time.Duration) (commandResult, error) {
	exe, err := p.executable()
	if err != nil {
		return commandResult{ExitCode: -1}, err
	}
	return runCommand(ctx, timeout, dir, exe, script)
}
