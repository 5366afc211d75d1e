package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pyproj-labs/pyproj/internal/branding"
	"github.com/pyproj-labs/pyproj/internal/config"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configListJSON bool

func init() {
	configListCmd.Flags().BoolVar(&configListJSON, "json", false, "Output as JSON")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write pyproj configuration stored at ~/.pyproj/config.yaml.

Keys: ` + strings.Join(config.Keys(), ", ") + `. Each key can be overridden
with an environment variable such as ` + branding.EnvVar(config.KeyEditor) + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			var ie *config.InvalidError
			if errors.As(err, &ie) {
				for _, issue := range ie.Issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", issue.Message)
				}
			}
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting after defaults and overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		values := make(map[string]string)
		for _, k := range config.Keys() {
			values[k] = config.Get(k)
		}

		var (
			data []byte
			err  error
		)
		if configListJSON {
			data, err = json.MarshalIndent(values, "", "  ")
			if err == nil {
				data = append(data, '\n')
			}
		} else {
			data, err = yaml.Marshal(values)
		}
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
