// Package platformcheck checks that a host can run the SSZ Theory
// Predictions project.
//
// It detects the platform (Windows, WSL, Linux, macOS or Google Colab),
// probes the Python interpreter and its packages, UTF-8 handling, the
// expected source and data files, path and permission semantics, and runs
// the project's quick data validation script. Every check yields a boolean
// outcome plus human-readable diagnostics with remediation hints.
//
// # Running all checks
//
//	c := platformcheck.New(platformcheck.WithRoot("."))
//	report, err := c.Run(ctx)
//	if platformcheck.IsInterrupted(err) {
//	    os.Exit(platformcheck.ExitInterrupted)
//	}
//	os.Exit(report.ExitCode())
//
// # Detection
//
// [Detect] is a pure function of [Markers]. [HostMarkers] wires it to the
// real host (kernel banner in /proc/version, runtime.GOOS, the Colab
// runtime module); tests inject fakes:
//
//	env := platformcheck.Detect(platformcheck.Markers{
//	    GOOS:        "linux",
//	    ProcVersion: func() (string, error) { return "Linux 5.15 microsoft-standard-WSL2", nil },
//	})
//	// env == platformcheck.EnvironmentWSL
//
// # Outcomes
//
// A check fails on hard findings only: unsupported interpreter, missing
// package, missing required file, missing critical data file, missing
// script, or a validation run that times out, exits non-zero or cannot
// start. Soft findings (optional data, missing execute bit, non-UTF-8
// console, CRLF line endings under WSL) are printed as warnings and kept in
// [CheckResult.Warnings]. The environment-specific WSL and Windows checks are
// informational and always pass.
//
// What a healthy checkout contains is described by a [Manifest]; the
// default is embedded in the package and can be replaced with [WithManifest].
package platformcheck
