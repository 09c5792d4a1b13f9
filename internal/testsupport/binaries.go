package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// StubBinary writes an executable shell script named name into a temp bin
// directory and prepends that directory to PATH for the test's duration.
// The script body runs under /bin/sh.
func StubBinary(t testing.TB, name, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries require a POSIX shell")
	}

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	prependPath(t, binDir)
}

func prependPath(t testing.TB, dir string) {
	t.Helper()
	current := os.Getenv("PATH")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+current)
}

// WriteVideo creates a small placeholder video file at path.
func WriteVideo(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte{0x1a, 0x45, 0xdf, 0xa3}, 0o644); err != nil {
		t.Fatalf("write video %s: %v", path, err)
	}
}
