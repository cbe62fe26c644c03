package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Crawl the whole remote catalog into the store",
	Long: `Runs a full crawl in the foreground. Suitable for system cron as an
alternative to the API service's built-in schedule.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		count, err := a.engine.RunFullCrawl(cmd.Context())
		if err != nil {
			return fmt.Errorf("crawl failed after %d products: %w", count, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d products\n", count)
		return nil
	}),
}

var syncProductCmd = &cobra.Command{
	Use:   "sync-product <id>",
	Short: "Resync one product, deleting it if the shop no longer has it",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		if err := a.engine.SyncProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %s\n", args[0])
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a product from the local store",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		if err := a.engine.DeleteProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	}),
}
