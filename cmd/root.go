package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/config"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/logging"
	"github.com/abhisek/eduz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "eduz",
	Short: "Terminal client for the EduZ quiz system",
	Long:  "EduZ: take quizzes, author questions and manage accounts against an EduZ backend, from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, guard.PathLanding)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Directory containing config.yaml")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDUZ_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also log to stderr (CLI subcommands only)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the persistent flags, which
// win over file and environment values.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := config.EnsureDir(p); err != nil {
			return config.Config{}, fmt.Errorf("create db dir: %w", err)
		}
		cfg.Storage.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.API.BaseURL = u
	}
	return cfg, nil
}

// setup builds the application context. The returned cleanup closes the
// store and flushes the logger; it must be called even on later errors.
func setup(cmd *cobra.Command, console bool) (*appctx.Deps, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.New(cfg.Log, console && verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	st, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		_ = log.Sync()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
		_ = log.Sync()
	}

	deps := appctx.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	}, st.KV(), st.HistoryRepo(), log)

	if err := deps.Restore(cmd.Context()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("restore session: %w", err)
	}
	log.Debug("client ready",
		zap.String("api", cfg.API.BaseURL),
		zap.String("db", cfg.Storage.DBPath),
	)
	return deps, cleanup, nil
}

// requireLogin fails fast for subcommands that need a token.
func requireLogin(deps *appctx.Deps) error {
	if !deps.Session.State().Authenticated() {
		return fmt.Errorf("not signed in: run `eduz login` first")
	}
	return nil
}
