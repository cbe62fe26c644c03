// Command catalogctl runs catalog operations inline against the configured
// database and shop.
package main

import (
	"fmt"
	"os"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/services/shopify"
	"storefront/internal/services/validation"
	"storefront/internal/syncer"

	"github.com/spf13/cobra"
)

// app holds the handles one subcommand run works with.
type app struct {
	db     *database.Database
	store  *catalog.Store
	query  *catalog.QueryEngine
	engine *syncer.Engine
	logger *logger.Logger
}

var flagJSON bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operate the local product catalog mirror",
	Long: `catalogctl crawls the Shopify catalog into the local store, resyncs or
deletes single products and queries collections. Configuration comes from
the environment (and .env), as for the API service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(syncProductCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(listCmd)
}

// withApp opens the configured store and shop client for one run of fn
// and closes them when it returns.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.db.Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, a, args)
	}
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(cfg.LogLevel, cmd.ErrOrStderr())
	db, err := database.New(cfg.DatabaseURL, database.Options{Verbose: log.IsDebug()})
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore(db.DB)
	client := shopify.NewClient(cfg.ShopDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, cfg.ShopifyTimeout, log)
	return &app{
		db:     db,
		store:  store,
		query:  catalog.NewQueryEngine(db.DB),
		engine: syncer.New(client, store, shopify.NewTransformer(), validation.New(log), log),
		logger: log,
	}, nil
}
