package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/internal/config"
	"github.com/goliatone/go-fieldbuilder/internal/logging"
)

var (
	configFile string
	envFile    string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fieldbuilder",
	Short: "Build and maintain form field schemas",
	Long: `fieldbuilder edits the ordered list of field descriptors that defines a form.

Schemas are stored as a pretty-printed JSON array of {name, type, options}
objects. Edit them in the terminal, serve the HTML builder, validate files
or export them as OpenAPI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(logging.Options{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Production: cfg.Production(),
			Output:     cmd.ErrOrStderr(),
		})
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading FIELDBUILDER_ variables")

	rootCmd.AddCommand(editCmd, serveCmd, exportCmd, lookupCmd, suggestCmd, validateCmd)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
