// Package cmd implements the huskymart CLI commands. The CLI is a thin
// shell over the marketplace library: each subcommand maps to one screen of
// the mobile client (browse, sell, profile, checkout).
package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huskymart/huskymart/internal/atlas"
	"github.com/huskymart/huskymart/internal/config"
	"github.com/huskymart/huskymart/internal/identity"
	"github.com/huskymart/huskymart/internal/market"
	"github.com/huskymart/huskymart/internal/session"
	"github.com/huskymart/huskymart/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "huskymart",
		Short: "CLI client for the HuskyMart campus marketplace",
		Long: "huskymart is a command-line client for a peer-to-peer secondhand\n" +
			"marketplace. Sign in, list items for sale, browse what others are\n" +
			"selling, and buy with a single guarded transaction.",
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.huskymart/config.yaml)")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(sellCmd())
	rootCmd.AddCommand(buyCmd())
	rootCmd.AddCommand(mineCmd())
	rootCmd.AddCommand(purchasesCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(versionCmd())
}

func initViper() {
	viper.SetEnvPrefix("HUSKYMART")
	viper.AutomaticEnv()
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if env := viper.GetString("config"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "huskymart.yaml"
	}
	return filepath.Join(home, ".huskymart", "config.yaml")
}

// app bundles the wired-up components each subcommand needs.
type app struct {
	cfg       *config.Config
	repo      *market.Repository
	purchases *market.PurchaseService
	sessions  session.Store
	provider  identity.Provider
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	store := atlas.NewClient(
		cfg.Store.BaseURL,
		cfg.Store.APIKey,
		cfg.Store.DataSource,
		cfg.Store.Database,
		atlas.WithHTTPClient(&http.Client{Timeout: cfg.Store.Timeout}),
		atlas.WithRateLimiter(atlas.NewRateLimiter(
			cfg.Store.RateLimit.PerSecond,
			cfg.Store.RateLimit.Burst,
			cfg.Store.RateLimit.DailyLimit,
		)),
		atlas.WithLogger(log),
	)

	repo := market.NewRepository(store,
		market.WithCollection(cfg.Store.Collection),
		market.WithRepositoryLogger(log),
	)

	provider := identity.NewGraphProvider(cfg.Identity.ClientID,
		identity.WithAuthority(cfg.Identity.Authority),
		identity.WithGraphURL(cfg.Identity.GraphURL),
		identity.WithPrompt(func(code, uri string) {
			fmt.Printf("To sign in, open %s and enter the code %s\n", uri, code)
		}),
	)

	return &app{
		cfg:       cfg,
		repo:      repo,
		purchases: market.NewPurchaseService(repo, market.WithPurchaseLogger(log)),
		sessions:  session.NewFileStore(cfg.Session.Path),
		provider:  provider,
	}, nil
}

// currentSession returns the persisted signed-in session or an error
// telling the user to log in.
func (a *app) currentSession() (session.Session, error) {
	s, err := a.sessions.Get()
	if err != nil {
		return session.Session{}, err
	}
	if !s.Authenticated {
		return session.Session{}, errors.New("not signed in; run `huskymart login` first")
	}
	return s, nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
