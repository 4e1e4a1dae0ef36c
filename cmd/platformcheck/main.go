package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sszlab/platformcheck"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build metadata injected via ldflags.
// When built without ldflags (e.g., plain `go build`), these remain
// at their zero values and the version command omits them gracefully.
var (
	version = ""
	commit  = ""
	date    = ""
)

// exitError carries a process exit status out of a command without
// printing anything further.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCmd, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and maps its outcome to an exit status:
// 0 all checks passed, 1 failures or unexpected errors, 130 interrupted.
func execute(ctx context.Context, build func(stdout, stderr io.Writer) *cobra.Command, args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stdout, "\n\nUnexpected error: %v\n", r)
			fmt.Fprintf(stderr, "%s", debug.Stack())
			code = platformcheck.ExitFailure
		}
	}()

	root := build(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	var ee *exitError
	switch {
	case err == nil:
		return platformcheck.ExitOK
	case platformcheck.IsInterrupted(err):
		fmt.Fprintln(stdout, "\n\nCheck interrupted by user")
		return platformcheck.ExitInterrupted
	case errors.As(err, &ee):
		return ee.code
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return platformcheck.ExitFailure
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "platformcheck",
		Short: "Multi-platform compatibility check for SSZ Theory Predictions",
		Long: `platformcheck verifies that this host can run the SSZ Theory Predictions project.

It detects the platform (Windows, WSL, Linux, macOS, Google Colab), checks the
Python interpreter and packages, UTF-8 support, required source and data files,
path separators and script permissions, then runs the quick data validation.
Exits with code 0 if every check passes, 1 otherwise, 130 when interrupted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(checkCmd())
	root.AddCommand(detectCmd())
	root.AddCommand(manifestCmd())
	root.AddCommand(versionCmd())
	return root
}

// CheckOptions defines flags for the check subcommand.
type CheckOptions struct {
	Root     string              `flag:"root" flagdescr:"Project root all manifest paths are relative to"`
	Python   string              `flag:"python" flagdescr:"Python interpreter to probe"`
	Manifest string              `flag:"manifest" flagshort:"m" flagdescr:"Manifest file replacing the built-in one"`
	Env      environmentOverride `flag:"env" flagdescr:"Assume this environment instead of detecting it" flagcustom:"true"`
	Timeout  time.Duration       `flag:"timeout" flagdescr:"Mini validation timeout (0 uses the manifest value)"`
	JSON     bool                `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
	NoColor  bool                `flag:"no-color" flagdescr:"Disable colored output"`
	Verbose  bool                `flag:"verbose" flagshort:"v" flagdescr:"Log debug information to stderr"`
}

func (o *CheckOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *CheckOptions) DefineEnv(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*environmentOverride)
	*fieldPtr = ""
	return fieldPtr, descr + " (" + strings.Join(platformcheck.EnvironmentNames(), ", ") + ")"
}

func (o *CheckOptions) DecodeEnv(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}
	return parseEnvironmentOverride(s)
}

// CompleteEnv offers environment identifiers for shell completion.
func (o *CheckOptions) CompleteEnv(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.ToLower(strings.TrimSpace(toComplete))
	var candidates []string
	for _, name := range platformcheck.EnvironmentNames() {
		if strings.HasPrefix(name, prefix) {
			candidates = append(candidates, name)
		}
	}
	return candidates, cobra.ShellCompDirectiveNoFileComp
}

func checkCmd() *cobra.Command {
	opts := &CheckOptions{
		Root:   ".",
		Python: platformcheck.DefaultPython(),
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run all compatibility checks and print the report",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := newLogger(opts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			checkerOpts, err := opts.checkerOptions(c.OutOrStdout())
			if err != nil {
				return err
			}
			checkerOpts = append(checkerOpts, platformcheck.WithLogger(logger))

			if err := platformcheck.SetupConsole(); err != nil {
				logger.Debug("console setup failed", zap.Error(err))
			}

			report, err := platformcheck.New(checkerOpts...).Run(c.Context())
			if err != nil {
				return err
			}

			if opts.JSON {
				if err := printJSON(c.OutOrStdout(), reportJSON(report)); err != nil {
					return err
				}
			}
			if code := report.ExitCode(); code != platformcheck.ExitOK {
				return &exitError{code: code}
			}
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func (o *CheckOptions) checkerOptions(stdout io.Writer) ([]platformcheck.Option, error) {
	opts := []platformcheck.Option{
		platformcheck.WithRoot(o.Root),
		platformcheck.WithPython(o.Python),
	}

	if o.Manifest != "" {
		m, err := platformcheck.LoadManifest(o.Manifest)
		if err != nil {
			return nil, err
		}
		opts = append(opts, platformcheck.WithManifest(m))
	}
	if env, ok := o.Env.Environment(); ok {
		opts = append(opts, platformcheck.WithEnvironment(env))
	}
	if o.Timeout > 0 {
		opts = append(opts, platformcheck.WithValidationTimeout(o.Timeout))
	}

	switch {
	case o.JSON:
		opts = append(opts, platformcheck.WithOutput(io.Discard, false))
	default:
		opts = append(opts, platformcheck.WithOutput(stdout, !o.NoColor && platformcheck.IsTerminal(stdout)))
	}
	return opts, nil
}

// DetectOptions defines flags for the detect subcommand.
type DetectOptions struct {
	Root    string `flag:"root" flagdescr:"Project root reported as working directory"`
	Python  string `flag:"python" flagdescr:"Python interpreter to probe"`
	JSON    bool   `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
	Verbose bool   `flag:"verbose" flagshort:"v" flagdescr:"Log debug information to stderr"`
}

func (o *DetectOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func detectCmd() *cobra.Command {
	opts := &DetectOptions{
		Root:   ".",
		Python: platformcheck.DefaultPython(),
	}

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the execution environment and display host facts",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := newLogger(opts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := c.Context()
			py := platformcheck.NewPython(opts.Python)
			py.Dir = opts.Root
			env := platformcheck.Detect(platformcheck.HostMarkers(ctx, py))
			info := platformcheck.ProbeHost(ctx, py, opts.Root)
			logger.Debug("host probed", zap.Stringer("environment", env), zap.String("platform", info.Platform()))

			if opts.JSON {
				return printJSON(c.OutOrStdout(), map[string]any{
					"environment": env,
					"host":        info,
				})
			}

			out := c.OutOrStdout()
			python := info.PythonVersion
			if python == "" {
				python = "not found"
			}
			fmt.Fprintf(out, "Environment: %s\n", env)
			fmt.Fprintf(out, "Platform:    %s (%s)\n", info.Platform(), info.Arch)
			fmt.Fprintf(out, "Python:      %s\n", python)
			fmt.Fprintf(out, "Working dir: %s\n", info.WorkDir)
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// ManifestOptions defines flags for the manifest subcommand.
type ManifestOptions struct {
	Manifest string `flag:"manifest" flagshort:"m" flagdescr:"Manifest file to validate and display instead of the built-in one"`
	JSON     bool   `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *ManifestOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func manifestCmd() *cobra.Command {
	opts := &ManifestOptions{}

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Display the effective manifest of expected files and packages",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			m := platformcheck.DefaultManifest()
			if opts.Manifest != "" {
				loaded, err := platformcheck.LoadManifest(opts.Manifest)
				if err != nil {
					return err
				}
				m = loaded
			}

			if opts.JSON {
				return printJSON(c.OutOrStdout(), m)
			}

			data, err := m.YAML()
			if err != nil {
				return err
			}
			_, err = c.OutOrStdout().Write(data)
			return err
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show tool version",
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if version != "" {
				fmt.Fprintf(out, "platformcheck %s", version)
				if commit != "" {
					fmt.Fprintf(out, " (%s)", commit)
				}
				if date != "" {
					fmt.Fprintf(out, " built %s", date)
				}
				fmt.Fprintln(out)
			} else {
				fmt.Fprintln(out, "platformcheck (dev)")
			}
			return nil
		},
	}
}

// newLogger builds a production logger on stderr, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func reportJSON(r *platformcheck.Report) map[string]any {
	return map[string]any{
		"ok":          r.AllPassed(),
		"environment": r.Environment,
		"total":       len(r.Results),
		"passed":      r.Passed(),
		"failed":      r.Failed(),
		"checks":      r.Results,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// environmentOverride is an optional --env value holding a canonical
// environment identifier; empty means detect.
type environmentOverride string

var environmentIdentifierMap = func() map[platformcheck.Environment][]string {
	ids := make(map[platformcheck.Environment][]string, len(platformcheck.EnvironmentValues()))
	for _, e := range platformcheck.EnvironmentValues() {
		ids[e] = []string{strings.ToLower(e.String())}
	}
	ids[platformcheck.EnvironmentMacOS] = append(ids[platformcheck.EnvironmentMacOS], "darwin")
	return ids
}()

func (o *environmentOverride) String() string {
	return string(*o)
}

func (o *environmentOverride) Set(input string) error {
	parsed, err := parseEnvironmentOverride(input)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o *environmentOverride) Type() string {
	return "environment"
}

// Environment returns the forced environment, if one was given.
func (o environmentOverride) Environment() (platformcheck.Environment, bool) {
	if o == "" {
		return platformcheck.EnvironmentUnknown, false
	}
	env, err := platformcheck.ParseEnvironment(string(o))
	if err != nil {
		return platformcheck.EnvironmentUnknown, false
	}
	return env, true
}

func parseEnvironmentOverride(input string) (environmentOverride, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", nil
	}

	var env platformcheck.Environment
	enumValue := enumflag.New(&env, "platformcheck.Environment", environmentIdentifierMap, enumflag.EnumCaseInsensitive)
	if err := enumValue.Set(name); err != nil {
		return "", fmt.Errorf("unknown environment: %q (available: %s)", name, strings.Join(platformcheck.EnvironmentNames(), ", "))
	}
	return environmentOverride(strings.ToLower(env.String())), nil
}
