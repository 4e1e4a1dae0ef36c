//go:build linux

package platformcheck

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPython_Version(t *testing.T) {
	py := NewPython(fakePython(t, "3.11.4"))

	v, err := py.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v != "3.11.4" {
		t.Errorf("Version() = %q, want 3.11.4", v)
	}

	sv, err := py.SemVer(context.Background())
	if err != nil {
		t.Fatalf("SemVer() error = %v", err)
	}
	if sv.Major() != 3 || sv.Minor() != 11 {
		t.Errorf("SemVer() = %s", sv)
	}
}

func TestPython_VersionCached(t *testing.T) {
	path := fakePython(t, "3.9.18")
	py := NewPython(path)
	if _, err := py.Version(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Removing the interpreter must not matter once the version is known.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	v, err := py.Version(context.Background())
	if err != nil || v != "3.9.18" {
		t.Errorf("Version() = %q, %v; want cached 3.9.18", v, err)
	}
}

func TestPython_NotFound(t *testing.T) {
	py := NewPython(filepath.Join(t.TempDir(), "python3"))

	if _, err := py.Version(context.Background()); !errors.Is(err, ErrInterpreterNotFound) {
		t.Errorf("Version() error = %v, want ErrInterpreterNotFound", err)
	}
	if err := py.Import(context.Background(), "numpy"); !errors.Is(err, ErrInterpreterNotFound) {
		t.Errorf("Import() error = %v, want ErrInterpreterNotFound", err)
	}
}

func TestPython_Import(t *testing.T) {
	py := NewPython(fakePython(t, "3.11.4", "scipy"))

	if err := py.Import(context.Background(), "numpy"); err != nil {
		t.Errorf("Import(numpy) error = %v", err)
	}

	err := py.Import(context.Background(), "scipy")
	if !errors.Is(err, ErrImportFailed) {
		t.Fatalf("Import(scipy) error = %v, want ErrImportFailed", err)
	}
	if !strings.Contains(err.Error(), "No module named 'scipy'") {
		t.Errorf("Import(scipy) error %q lacks interpreter message", err)
	}
}

func TestPython_RunScript(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "check.py"), []byte("echo validated\nexit 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	py := NewPython(fakePython(t, "3.11.4"))
	res, err := py.RunScript(context.Background(), dir, "check.py", 5*time.Second)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if res.ExitCode != 0 || strings.TrimSpace(res.Stdout) != "validated" {
		t.Errorf("RunScript() = %+v", res)
	}
}

func TestDefaultPython(t *testing.T) {
	if got := DefaultPython(); got != "python3" {
		t.Errorf("DefaultPython() = %q, want python3", got)
	}
	if got := NewPython("").Path; got != "python3" {
		t.Errorf("NewPython(\"\").Path = %q, want python3", got)
	}
}

func TestPython_RelativePathFromOtherDir(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	src := fakePython(t, "3.11.4")
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join("venv", "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("venv", "bin", "python3"), data, 0o755); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "check.py"), []byte("exit 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	py := NewPython(filepath.Join("venv", "bin", "python3"))
	if _, err := py.Version(context.Background()); err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	res, err := py.RunScript(context.Background(), root, "check.py", 5*time.Second)
	if err != nil {
		t.Fatalf("RunScript() from another directory error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("RunScript() exit code = %d", res.ExitCode)
	}
}

func TestPython_ImportFromDir(t *testing.T) {
	// Succeeds only when <module>.py sits in the working directory.
	script := `#!/bin/sh
mod="${2#import }"
[ -f "$mod.py" ] && exit 0
echo "ModuleNotFoundError: No module named '$mod'" >&2
exit 1
`
	exe := filepath.Join(t.TempDir(), "python3")
	if err := os.WriteFile(exe, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "sszlocal.py"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	py := NewPython(exe)
	if err := py.Import(context.Background(), "sszlocal"); !errors.Is(err, ErrImportFailed) {
		t.Fatalf("Import() without Dir error = %v, want ErrImportFailed", err)
	}
	py.Dir = root
	if err := py.Import(context.Background(), "sszlocal"); err != nil {
		t.Fatalf("Import() from project dir error = %v", err)
	}

	c := New(WithRoot(root), WithPython(exe), WithOutput(&bytes.Buffer{}, false))
	if err := c.python.Import(context.Background(), "sszlocal"); err != nil {
		t.Errorf("checker interpreter does not import from the project root: %v", err)
	}
}
