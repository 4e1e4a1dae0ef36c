package platformcheck

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Check names, in registration order.
const (
	CheckPythonVersion         = "Python Version"
	CheckDependencies          = "Dependencies"
	CheckUTF8Support           = "UTF-8 Support"
	CheckFileStructure         = "File Structure"
	CheckDataFiles             = "Data Files"
	CheckPathSeparators        = "Path Separators"
	CheckExecutablePermissions = "Executable Permissions"
	CheckColabIntegration      = "Colab Integration"
	CheckWSLCompatibility      = "WSL Compatibility"
	CheckWindowsCompatibility  = "Windows Compatibility"
	CheckMiniValidation        = "Mini Validation"
)

// Check is a named probe. Run reports the outcome and writes diagnostics
// to the checker's output; it never returns an error.
type Check struct {
	Name string
	Run  func(ctx context.Context) bool
}

// checkerConfig holds the configuration for a compatibility run.
type checkerConfig struct {
	root        string
	python      string
	manifest    *Manifest
	environment *Environment
	markers     *Markers
	timeout     time.Duration
	out         io.Writer
	color       bool
	logger      *zap.Logger
}

// Option configures a [Checker].
type Option func(*checkerConfig)

// WithRoot sets the project root all manifest paths are relative to.
func WithRoot(dir string) Option {
	return func(c *checkerConfig) {
		c.root = dir
	}
}

// WithPython sets the interpreter used for version, import and validation checks.
func WithPython(path string) Option {
	return func(c *checkerConfig) {
		c.python = path
	}
}

// WithManifest replaces the embedded manifest.
func WithManifest(m *Manifest) Option {
	return func(c *checkerConfig) {
		c.manifest = m
	}
}

// WithEnvironment skips detection and uses env.
func WithEnvironment(env Environment) Option {
	return func(c *checkerConfig) {
		c.environment = &env
	}
}

// WithMarkers sets the marker sources used for detection.
// This is primarily for testing; production code uses [HostMarkers].
func WithMarkers(m Markers) Option {
	return func(c *checkerConfig) {
		c.markers = &m
	}
}

// WithValidationTimeout overrides the manifest's mini validation timeout.
func WithValidationTimeout(d time.Duration) Option {
	return func(c *checkerConfig) {
		c.timeout = d
	}
}

// WithOutput sets where diagnostics are written and whether they are colored.
func WithOutput(w io.Writer, color bool) Option {
	return func(c *checkerConfig) {
		c.out = w
		c.color = color
	}
}

// WithLogger sets the logger for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *checkerConfig) {
		c.logger = l
	}
}

// Checker runs the compatibility checks against a project checkout.
type Checker struct {
	root     string
	manifest *Manifest
	python   *Python
	timeout  time.Duration
	out      *Output
	log      *zap.Logger
	// codec is the text encoding output goes through.
	codec encoding.Encoding

	environment *Environment
	markers     *Markers
}

// New returns a Checker configured by opts.
func New(opts ...Option) *Checker {
	cfg := &checkerConfig{root: "."}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.manifest == nil {
		cfg.manifest = DefaultManifest()
	}
	if cfg.out == nil {
		cfg.out = os.Stdout
		cfg.color = IsTerminal(os.Stdout)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	py := NewPython(cfg.python)
	py.Dir = cfg.root

	timeout := cfg.manifest.Validation.Timeout
	if cfg.timeout > 0 {
		timeout = cfg.timeout
	}

	return &Checker{
		root:        cfg.root,
		manifest:    cfg.manifest,
		python:      py,
		timeout:     timeout,
		out:         NewOutput(cfg.out, cfg.color),
		log:         cfg.logger,
		codec:       unicode.UTF8,
		environment: cfg.environment,
		markers:     cfg.markers,
	}
}

// Environment detects the host, unless an environment was forced with
// [WithEnvironment].
func (c *Checker) Environment(ctx context.Context) Environment {
	if c.environment != nil {
		return *c.environment
	}
	m := HostMarkers(ctx, c.python)
	if c.markers != nil {
		m = *c.markers
	}
	env := Detect(m)
	c.log.Debug("environment detected", zap.Stringer("environment", env), zap.String("goos", m.GOOS))
	return env
}

// Checks returns the checks that run for env, in order. At most one
// environment-specific check is included.
func (c *Checker) Checks(env Environment) []Check {
	checks := []Check{
		{Name: CheckPythonVersion, Run: c.checkPythonVersion},
		{Name: CheckDependencies, Run: c.checkDependencies},
		{Name: CheckUTF8Support, Run: c.checkUTF8Support},
		{Name: CheckFileStructure, Run: c.checkFileStructure},
		{Name: CheckDataFiles, Run: c.checkDataFiles},
		{Name: CheckPathSeparators, Run: func(context.Context) bool { return c.checkPathSeparators(env) }},
		{Name: CheckExecutablePermissions, Run: func(context.Context) bool { return c.checkExecutablePermissions(env) }},
	}

	switch env {
	case EnvironmentColab:
		checks = append(checks, Check{Name: CheckColabIntegration, Run: c.checkColab})
	case EnvironmentWSL:
		checks = append(checks, Check{Name: CheckWSLCompatibility, Run: c.checkWSL})
	case EnvironmentWindows:
		checks = append(checks, Check{Name: CheckWindowsCompatibility, Run: c.checkWindows})
	}

	return append(checks, Check{Name: CheckMiniValidation, Run: c.checkMiniValidation})
}

// Run executes every check and renders the report.
//
// If ctx is canceled, Run stops at the next check boundary, prints nothing
// further and returns the partial report with [ErrInterrupted].
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	env := c.Environment(ctx)
	report := &Report{Environment: env}

	c.out.Banner(env, ProbeHost(ctx, c.python, c.root))

	for _, check := range c.Checks(env) {
		if ctx.Err() != nil {
			return report, ErrInterrupted
		}
		c.out.resetWarnings()
		passed := check.Run(ctx)
		if ctx.Err() != nil {
			return report, ErrInterrupted
		}
		c.log.Debug("check finished", zap.String("check", check.Name), zap.Bool("passed", passed))
		res := CheckResult{Name: check.Name, Passed: passed, Warnings: c.out.takeWarnings()}
		if err := report.record(res); err != nil {
			return report, err
		}
	}

	c.out.Summary(report)
	c.out.Recommendations(env, c.manifest)
	c.out.Verdict(report)
	return report, nil
}

// IsInterrupted reports whether err stems from operator cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled)
}
