package cli

import (
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog"
	"github.com/gear6io/glacier/server/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "glacier",
	Short: "An Iceberg catalog on conditional key-value storage",
	Long: `Glacier is a metadata catalog for Apache Iceberg tables that keeps
every namespace and table record in a conditional key-value store.

All catalog mutations are single conditional writes, so concurrent
clients resolve every conflict to exactly one winner without locks.`,
	Version: "0.1.0",
}

var configPath string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// FormatRunError renders a command error for terminal output, including
// code and context when the error carries them.
func FormatRunError(err error) string {
	return errors.FormatError(err)
}

// loadConfig resolves the configuration for a CLI invocation. An explicit
// --config path must load; otherwise the default file is tried and the
// built-in defaults are the fallback.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	cfg, err := config.LoadConfig("glacier.yml")
	if err != nil {
		return config.LoadDefaultConfig(), nil
	}
	return cfg, nil
}

// openCatalog builds the configured catalog for a command invocation.
func openCatalog(cmd *cobra.Command) (*catalog.Catalog, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	logger, err := config.SetupLogger(cfg)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	cat, err := catalog.NewCatalog(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cat, logger, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
}
