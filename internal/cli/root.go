package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pyproj-labs/pyproj/internal/branding"
	"github.com/pyproj-labs/pyproj/internal/config"
	"github.com/pyproj-labs/pyproj/internal/project"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose    bool
	assumeYes  bool
	noRegister bool
	noEditor   bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Add the binary directory to PATH without asking")
	rootCmd.Flags().BoolVar(&noRegister, "no-register", false, "Never offer to modify the shell profile")
	rootCmd.Flags().BoolVar(&noEditor, "no-editor", false, "Stop after activation instead of launching the editor")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <name-or-path>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a standardized Python project or reopens an existing one.

If the target does not exist, a virtual environment, a pinned requirements.txt,
example apps for Flask, FastAPI, Streamlit, Jupyter and a CLI are created and
the dependencies installed. If it exists, its layout is validated first. In
both cases the environment is activated and the editor opened on the project.`,
	Example: `  ` + branding.CLIName() + ` demo
  ` + branding.CLIName() + ` ~/src/analysis --no-editor`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		wf := project.New(project.Options{
			Out:        cmd.OutOrStdout(),
			In:         cmd.InOrStdin(),
			Logger:     newLogger(cmd.ErrOrStderr()),
			Settings:   config.Current(),
			Yes:        assumeYes,
			NoRegister: noRegister,
			NoEditor:   noEditor,
		})
		return wf.Run(ctx, args[0])
	},
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command with build info injected via ldflags. The
// error, if any, has already been printed to stderr.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s: %v\n", branding.CLIName(), err)
	}
	return err
}
