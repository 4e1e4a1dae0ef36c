package platformcheck

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by a compatibility run.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

var (
	// ErrInterrupted is returned by [Checker.Run] when the operator cancels the run.
	ErrInterrupted = errors.New("check interrupted by user")
	// ErrTimeout is returned when a child process exceeds its deadline.
	ErrTimeout = errors.New("timed out")
	// ErrInterpreterNotFound is returned when the Python interpreter cannot be located.
	ErrInterpreterNotFound = errors.New("python interpreter not found")
	// ErrImportFailed is returned when a Python module cannot be imported.
	ErrImportFailed = errors.New("import failed")
	// ErrDuplicateCheck is returned when two checks are registered under the same name.
	ErrDuplicateCheck = errors.New("duplicate check name")
)

// Environment identifies the platform a run executes on.
type Environment int

const (
	// EnvironmentUnknown is any platform not recognized below.
	EnvironmentUnknown Environment = iota
	// EnvironmentWindows is native Windows.
	EnvironmentWindows
	// EnvironmentWSL is Linux running under the Windows Subsystem for Linux.
	EnvironmentWSL
	// EnvironmentLinux is a regular Linux host.
	EnvironmentLinux
	// EnvironmentMacOS is Darwin.
	EnvironmentMacOS
	// EnvironmentColab is a Google Colab notebook runtime.
	EnvironmentColab
)

var environmentNames = map[Environment]string{
	EnvironmentUnknown: "Unknown",
	EnvironmentWindows: "Windows",
	EnvironmentWSL:     "WSL",
	EnvironmentLinux:   "Linux",
	EnvironmentMacOS:   "macOS",
	EnvironmentColab:   "Colab",
}

func (e Environment) String() string {
	if name, ok := environmentNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Environment(%d)", e)
}

// IsUnix reports whether the environment has Unix path and permission semantics.
func (e Environment) IsUnix() bool {
	switch e {
	case EnvironmentLinux, EnvironmentWSL, EnvironmentColab, EnvironmentMacOS:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Environment) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// EnvironmentValues returns all environments in declaration order.
func EnvironmentValues() []Environment {
	return []Environment{
		EnvironmentUnknown,
		EnvironmentWindows,
		EnvironmentWSL,
		EnvironmentLinux,
		EnvironmentMacOS,
		EnvironmentColab,
	}
}

// EnvironmentNames returns the lower-case identifiers accepted by [ParseEnvironment].
func EnvironmentNames() []string {
	values := EnvironmentValues()
	names := make([]string, 0, len(values))
	for _, e := range values {
		names = append(names, strings.ToLower(e.String()))
	}
	return names
}

// ParseEnvironment parses an environment identifier case-insensitively.
func ParseEnvironment(s string) (Environment, error) {
	name := strings.TrimSpace(s)
	for _, e := range EnvironmentValues() {
		if strings.EqualFold(name, e.String()) {
			return e, nil
		}
	}
	if strings.EqualFold(name, "darwin") {
		return EnvironmentMacOS, nil
	}
	return EnvironmentUnknown, fmt.Errorf("unknown environment %q (available: %s)", s, strings.Join(EnvironmentNames(), ", "))
}

// CheckResult is the outcome of a single named check.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	// Warnings holds soft findings that did not flip the outcome.
	Warnings []string `json:"warnings,omitempty"`
}

// Report collects check results in registration order.
type Report struct {
	Environment Environment   `json:"environment"`
	Results     []CheckResult `json:"checks"`
}

func (r *Report) record(res CheckResult) error {
	for _, existing := range r.Results {
		if existing.Name == res.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateCheck, res.Name)
		}
	}
	r.Results = append(r.Results, res)
	return nil
}

// Result returns the result recorded under name.
func (r *Report) Result(name string) (CheckResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return CheckResult{}, false
}

// Passed returns the number of passed checks.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of failed checks.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// AllPassed reports whether every recorded check passed.
func (r *Report) AllPassed() bool {
	return r.Failed() == 0
}

// ExitCode maps the report to a process exit status.
func (r *Report) ExitCode() int {
	if r.AllPassed() {
		return ExitOK
	}
	return ExitFailure
}

// ManifestError describes an invalid manifest entry.
type ManifestError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("manifest %s: %s", e.Field, e.Reason)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
