package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bookstall/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	ephemeral  bool

	cfg      *config.Config
	rootPath string
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bookstall",
	Short: "A small bookstore storefront",
	Long: `bookstall sells a fixed catalog of books through a web storefront
and an interactive terminal storefront. The shopping cart is kept in a local
key-value store (SQLite by default, Redis or memory on request).

Run without a subcommand to start the web storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		absConfig, err := filepath.Abs(configPath)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		rootPath = filepath.Dir(absConfig)

		logger, err = buildLogger(consoleFor(cmd), cfg.GetAbsolutePath(rootPath, cfg.LogFile))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("configuration loaded", zap.String("path", absConfig), zap.String("config", cfg.String()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bookstall.conf", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the cart in memory only")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolvePath makes a configured path absolute relative to the config file
func resolvePath(p string) string {
	return cfg.GetAbsolutePath(rootPath, p)
}
