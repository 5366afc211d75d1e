package toolchain

import (
	"os"
	"strings"
)

// ActivationEnv returns env adjusted the way the venv activate script
// adjusts a shell: VIRTUAL_ENV points at venvDir, its bin directory leads
// PATH and PYTHONHOME is dropped.
func ActivationEnv(env []string, venvDir string) []string {
	out := make([]string, 0, len(env)+2)
	for _, e := range env {
		if strings.HasPrefix(e, "PYTHONHOME=") {
			continue
		}
		out = append(out, e)
	}

	path := VenvBin(venvDir)
	if cur, ok := lookupEnv(out, "PATH"); ok && cur != "" {
		path += string(os.PathListSeparator) + cur
	}
	out = setEnv(out, "PATH", path)
	out = setEnv(out, "VIRTUAL_ENV", venvDir)
	return out
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// lookupEnv returns the value of key in env.
func lookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return strings.TrimPrefix(e, prefix), true
		}
	}
	return "", false
}
