package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"impltrack/internal/config"
	"impltrack/internal/models"
	"impltrack/internal/output"
	"impltrack/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store
	cfg       *config.Config

	verbose bool
	dryRun  bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "impltrack",
	Short: "Track implementation-phase projects, issues, and code requests",
	Long: `impltrack manages the implementation phase of AI-assisted projects.
It imports design snapshots, keeps an append-only issue ledger, tracks code
requests, deployed files, tests, and bugs, and exports a checksummed snapshot
once every blocker is cleared.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/impltrack/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "impltrack")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("IMPLTRACK")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".config", "impltrack")

	viper.SetDefault("data_file", filepath.Join(defaultDataDir, "tracker_data.json"))
	viper.SetDefault("exports_dir", filepath.Join(defaultDataDir, "exports"))
	viper.SetDefault("imports_dir", filepath.Join(defaultDataDir, "imports"))
	viper.SetDefault("work_directory", ".")
	viper.SetDefault("shell_type", "bash")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	cfg = config.FromViper()

	// The store is initialized lazily so config/version commands run
	// without touching the data file.
}

// getStore returns the shared store, loading the data file on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	s := store.NewFileStore(cfg.DataFile)
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("load data file: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// resolveProject finds a project by name first, then by id.
func resolveProject(s store.Store, ref string) (*models.Project, error) {
	if p, err := s.GetByName(ref); err == nil {
		return p, nil
	}
	if p, err := s.Get(ref); err == nil {
		return p, nil
	}
	return nil, fmt.Errorf("project not found: %s", ref)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(ui.Out, "impltrack %s (commit %s, built %s)\n", buildVersion, buildCommit, buildDate)
	},
}
