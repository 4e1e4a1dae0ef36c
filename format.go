package platformcheck

import (
	"fmt"
	"strings"
)

const (
	titleBanner          = "SSZ MULTI-PLATFORM COMPATIBILITY CHECK"
	titleSummary         = "COMPATIBILITY CHECK SUMMARY"
	titleRecommendations = "RECOMMENDATIONS FOR %s"
)

// recommendations are the static per-platform notes printed after the summary.
// Entries may reference {packages}, replaced with the manifest's package list.
var recommendations = map[Environment][]string{
	EnvironmentWindows: {
		"Fully supported on Windows",
		"UTF-8 console output configured automatically",
		"Use PowerShell or CMD",
		"Path separators handled by path/filepath",
	},
	EnvironmentWSL: {
		"Fully supported on WSL",
		"Can access Windows drives via /mnt/",
		"Unix-style paths work natively",
		"May need: chmod +x *.py for direct execution",
	},
	EnvironmentColab: {
		"Fully supported on Google Colab",
		"Use SSZ_Colab_AutoRunner.ipynb",
		"Install: !pip install {packages}",
		"Clone repo: !git clone <url>",
	},
	EnvironmentLinux: {
		"Fully supported on Linux",
		"Native Unix environment",
		"UTF-8 default",
		"Fastest execution",
	},
	EnvironmentMacOS: {
		"Supported on macOS",
		"Native Unix environment",
		"Install Python 3 with Homebrew if python3 is missing",
		"May need: chmod +x *.py for direct execution",
	},
}

// Recommendations returns the platform notes for env, headline first.
// It returns nil for environments without recommendations.
func Recommendations(env Environment, m *Manifest) []string {
	notes := recommendations[env]
	if len(notes) == 0 {
		return nil
	}
	packages := ""
	if m != nil {
		packages = strings.Join(m.Python.Packages, " ")
	}
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = strings.ReplaceAll(n, "{packages}", packages)
	}
	return out
}

// Banner prints the run header and host facts.
func (o *Output) Banner(env Environment, info HostInfo) {
	o.Header(titleBanner, "=")
	fmt.Fprintln(o.w)
	fmt.Fprintf(o.w, "Environment Detected: %s\n", o.style(o.bold, env.String()))
	o.Detail("Platform: %s", info.Platform())
	python := info.PythonVersion
	if python == "" {
		python = "not found"
	}
	o.Detail("Python: %s", python)
	o.Detail("Working Directory: %s", info.WorkDir)
}

// Summary prints totals and one line per check, in registration order.
func (o *Output) Summary(r *Report) {
	o.Header(titleSummary, "=")
	fmt.Fprintln(o.w)
	o.Println("Results:")
	o.Detail("Total Checks: %d", len(r.Results))
	o.Detail("Passed: %d", r.Passed())
	o.Detail("Failed: %d", r.Failed())
	fmt.Fprintln(o.w)
	for _, res := range r.Results {
		if res.Passed {
			o.line(o.pass, glyphPass, res.Name)
		} else {
			o.line(o.fail, glyphFail, res.Name)
		}
	}
	fmt.Fprintln(o.w)
}

// Recommendations prints the platform notes for env.
func (o *Output) Recommendations(env Environment, m *Manifest) {
	o.Header(fmt.Sprintf(titleRecommendations, env), "-")
	notes := Recommendations(env, m)
	if len(notes) > 0 {
		fmt.Fprintf(o.w, "%s %s\n", o.style(o.pass, glyphPass), notes[0])
		for _, n := range notes[1:] {
			fmt.Fprintf(o.w, "   • %s\n", n)
		}
	}
	fmt.Fprintln(o.w)
}

// Verdict prints the final pass/fail banner.
func (o *Output) Verdict(r *Report) {
	env := strings.ToUpper(r.Environment.String())
	rule := strings.Repeat("=", ruleWidth-4)
	if r.AllPassed() {
		o.Println(o.style(o.pass, rule))
		fmt.Fprintln(o.w, o.style(o.pass, fmt.Sprintf("PLATFORM CHECK PASSED - FULLY COMPATIBLE WITH %s!", env)))
		o.Println(o.style(o.pass, rule))
		return
	}
	o.Println(o.style(o.warn, rule))
	fmt.Fprintln(o.w, o.style(o.warn, fmt.Sprintf("PLATFORM CHECK INCOMPLETE - SOME ISSUES ON %s", env)))
	o.Println(o.style(o.warn, rule))
	fmt.Fprintln(o.w)
	o.Println("Fix issues above before running full validation")
}

// String returns a plain-text summary of the report.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Environment: %s\n", r.Environment)
	fmt.Fprintf(&b, "Checks: %d passed, %d failed\n", r.Passed(), r.Failed())
	for _, res := range r.Results {
		status := "pass"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "  %s: %s\n", res.Name, status)
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "    warning: %s\n", w)
		}
	}
	return b.String()
}
