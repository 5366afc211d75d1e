package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pyproj-labs/pyproj/internal/config"
	"github.com/pyproj-labs/pyproj/internal/layout"
	"github.com/pyproj-labs/pyproj/internal/manifest"
	"github.com/pyproj-labs/pyproj/internal/platform"
	"github.com/pyproj-labs/pyproj/internal/shellrc"
	"github.com/spf13/cobra"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor <name-or-path>",
	Short: "Report every problem with a project and the toolchain",
	Long: `Run all checks on a project without stopping at the first failure.

Unlike the root command, doctor never creates anything, never activates the
environment and never launches the editor. It exits with status 1 when a
required tool or layout item is missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		out := cmd.OutOrStdout()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		p, err := layout.Resolve(args[0], cwd)
		if err != nil {
			return err
		}

		s := config.Current()
		problems := runToolchainCheck(out, s)
		problems += layout.WriteReport(out, p, layout.Inspect(p))
		runExecutableCheck(out, p)
		runPlatformCheck(out)
		problems += runManifestCheck(out, p)
		runConfigCheck(out)
		runProfileCheck(out, s)

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found in %s", problems, p.Root)
		}
		return nil
	},
}

func runToolchainCheck(w io.Writer, s config.Settings) int {
	fmt.Fprintln(w, "Toolchain check:")
	missing := 0
	for _, name := range []string{s.Python, s.Editor} {
		path, err := lookPath(name)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s not found\n", name)
			missing++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	}
	return missing
}

// runExecutableCheck flags a CLI example that lost its execute bit. It is
// informational only; the layout check already covers presence.
func runPlatformCheck(w io.Writer) {
	if !platform.IsSymlinkSupported() {
		fmt.Fprintln(w, "  [WARN] native symlinks unavailable, venv link is recorded in venv.target")
	}
}

func runExecutableCheck(w io.Writer, p *layout.Project) {
	ok, err := platform.IsExecutable(p.Path(layout.CLIExampleFile))
	if err == nil && !ok {
		fmt.Fprintf(w, "  [INFO] %s is not executable\n", layout.CLIExampleFile)
	}
}

func runManifestCheck(w io.Writer, p *layout.Project) int {
	fmt.Fprintf(w, "Manifest check: %s\n", p.ManifestPath())

	result, err := manifest.ValidateFile(p.ManifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  [SKIP] no manifest")
			return 0
		}
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1
	}
	if !result.Valid {
		fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Package != "" {
				fmt.Fprintf(w, "    - %s: %s\n", issue.Package, issue.Message)
			} else {
				fmt.Fprintf(w, "    - %s\n", issue.Message)
			}
		}
		return 1
	}

	pins, err := manifest.Parse(p.ManifestPath())
	if err == nil && manifest.Matches(pins) {
		fmt.Fprintln(w, "  [ OK ] pins match the defaults")
	} else {
		fmt.Fprintln(w, "  [INFO] pins differ from the defaults")
	}
	return 0
}

func runConfigCheck(w io.Writer) {
	path := config.FilePath()
	fmt.Fprintf(w, "Config check: %s\n", path)

	result, err := config.ValidateFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, "  [SKIP] not created, using defaults")
	case err != nil:
		fmt.Fprintf(w, "  [WARN] %v\n", err)
	case !result.Valid:
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "  [WARN] %s %s\n", issue.Path, issue.Message)
		}
	default:
		fmt.Fprintln(w, "  [ OK ] valid")
	}
}

func runProfileCheck(w io.Writer, s config.Settings) {
	home, _ := os.UserHomeDir()
	profile := shellrc.ProfilePath(s.Profile, os.Getenv("SHELL"), home)
	fmt.Fprintf(w, "PATH registration: %s\n", profile)

	registered, err := shellrc.IsRegistered(profile)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [WARN] %v\n", err)
	case registered:
		fmt.Fprintln(w, "  [ OK ] registered")
	default:
		fmt.Fprintln(w, "  [INFO] not registered")
	}
}
