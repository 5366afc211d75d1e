//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // $HOME, receives the shell profile
	BinDir    string // stub python3 and code, prepended to PATH
	WorkDir   string // where projects are created
	PipLog    string // every argument list the venv interpreter received
	EditorLog string // working directory and VIRTUAL_ENV seen by the editor
}

// fakePython answers --version and creates a venv whose interpreter only
// logs its arguments. PIP_EXIT makes that interpreter fail.
const fakePython = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "Python 3.11.4"
  exit 0
fi
if [ "$1" = "-m" ] && [ "$2" = "venv" ]; then
  mkdir -p "$3/bin"
  cat > "$3/bin/python" <<'PY'
#!/bin/sh
echo "$@" >> "$PIP_LOG"
if [ -n "$PIP_EXIT" ]; then
  echo "ERROR: could not install" >&2
  exit "$PIP_EXIT"
fi
exit 0
PY
  chmod +x "$3/bin/python"
  exit 0
fi
exit 2
`

const fakeEditor = `#!/bin/sh
echo "$PWD|$VIRTUAL_ENV|$1" > "$EDITOR_LOG"
`

// setupTestEnv creates isolated temp directories, installs the stub tools and
// sets environment variables so every operation is sandboxed. The env vars
// are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tools are POSIX shell scripts")
	}

	env := &testEnv{
		HomeDir: t.TempDir(),
		BinDir:  t.TempDir(),
		WorkDir: t.TempDir(),
	}
	logs := t.TempDir()
	env.PipLog = filepath.Join(logs, "pip.log")
	env.EditorLog = filepath.Join(logs, "editor.log")

	writeExecutable(t, filepath.Join(env.BinDir, "python3"), fakePython)
	writeExecutable(t, filepath.Join(env.BinDir, "code"), fakeEditor)

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("SHELL", "/bin/bash")
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("PIP_LOG", env.PipLog)
	t.Setenv("EDITOR_LOG", env.EditorLog)
	t.Setenv("PIP_EXIT", "")

	return env
}

// writeExecutable creates a script at path with mode 0755.
func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// readFile returns the file's content or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
