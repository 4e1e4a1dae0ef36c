package platformcheck

import (
	"context"
	"os"
	"runtime"
	"strings"
)

const (
	procVersionPath = "/proc/version"
	colabModule     = "google.colab"
	// colabEnvVar is exported by every Colab runtime.
	colabEnvVar = "COLAB_RELEASE_TAG"
)

// wslMarkers are the kernel version tokens WSL kernels carry.
var wslMarkers = []string{"microsoft", "wsl"}

// Markers are the runtime signals environment detection looks at.
// A nil function, or one returning an error, means the marker is absent.
type Markers struct {
	// GOOS is the operating system family, as in runtime.GOOS.
	GOOS string
	// ProcVersion returns the kernel version banner (Linux only).
	ProcVersion func() (string, error)
	// HasColab reports whether the Colab runtime module is importable.
	HasColab func() bool
}

// Detect classifies the host. The first matching rule wins:
// Colab marker, then Linux (WSL if the kernel banner says so), Windows, macOS.
func Detect(m Markers) Environment {
	if m.HasColab != nil && m.HasColab() {
		return EnvironmentColab
	}

	switch {
	case strings.HasPrefix(m.GOOS, "linux"):
		if m.ProcVersion != nil {
			if banner, err := m.ProcVersion(); err == nil && isWSLBanner(banner) {
				return EnvironmentWSL
			}
		}
		return EnvironmentLinux
	case strings.HasPrefix(m.GOOS, "windows"):
		return EnvironmentWindows
	case strings.HasPrefix(m.GOOS, "darwin"):
		return EnvironmentMacOS
	default:
		return EnvironmentUnknown
	}
}

func isWSLBanner(banner string) bool {
	lower := strings.ToLower(banner)
	for _, marker := range wslMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// HostMarkers returns markers backed by the real host.
// The Colab marker asks py to import the Colab module; py may be nil.
func HostMarkers(ctx context.Context, py *Python) Markers {
	return Markers{
		GOOS:        runtime.GOOS,
		ProcVersion: readProcVersion,
		HasColab: func() bool {
			if os.Getenv(colabEnvVar) != "" {
				return true
			}
			if py == nil {
				return false
			}
			return py.Import(ctx, colabModule) == nil
		},
	}
}

func readProcVersion() (string, error) {
	data, err := os.ReadFile(procVersionPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetupConsole prepares the process console for UTF-8 output.
// On Windows it switches the console output code page; elsewhere it is a no-op.
func SetupConsole() error {
	return setupConsole()
}

// HostInfo holds descriptive facts about the host, shown in the report banner.
type HostInfo struct {
	OS            string `json:"os"`
	Release       string `json:"release,omitempty"`
	Arch          string `json:"arch"`
	PythonVersion string `json:"python_version,omitempty"`
	WorkDir       string `json:"work_dir"`
}

// Platform renders the OS name and release, e.g. "linux 6.1.0-generic".
func (h HostInfo) Platform() string {
	if h.Release == "" {
		return h.OS
	}
	return h.OS + " " + h.Release
}

// ProbeHost collects [HostInfo]. py and root may be zero; missing facts stay empty.
func ProbeHost(ctx context.Context, py *Python, root string) HostInfo {
	info := HostInfo{
		OS:      runtime.GOOS,
		Release: osRelease(),
		Arch:    runtime.GOARCH,
		WorkDir: absPath(root),
	}
	if py != nil {
		if v, err := py.Version(ctx); err == nil {
			info.PythonVersion = v
		}
	}
	return info
}
