package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/spf13/cobra"
)

var (
	listCollection string
	listSort       string
	listOrder      string
	listInStock    bool
	listPage       int
	listLimit      int
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored products",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		total, err := a.store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), total)
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of a collection",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		pg := catalog.NewPagination(listPage, listLimit)
		result, err := a.query.List(cmd.Context(), catalog.ListQuery{
			CollectionID: listCollection,
			SortBy:       catalog.SortMode(listSort),
			Order:        catalog.ParseDirection(listOrder),
			OnlyInStock:  listInStock,
			Limit:        pg.Limit,
			Offset:       pg.Offset(),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"total":    result.Total,
				"page":     pg.Page,
				"limit":    pg.Limit,
				"pages":    pg.Pages(result.Total),
				"products": result.Products,
			})
		}
		writeTable(out, result.Products)
		fmt.Fprintf(out, "page %d of %d, %d products\n", pg.Page, pg.Pages(result.Total), result.Total)
		return nil
	}),
}

func init() {
	flags := listCmd.Flags()
	flags.StringVar(&listCollection, "collection", "", "collection id (required)")
	flags.StringVar(&listSort, "sort", string(catalog.SortColor), "color, number, name or price")
	flags.StringVar(&listOrder, "order", string(catalog.Asc), "asc or desc")
	flags.BoolVar(&listInStock, "instock", false, "only products available for sale")
	flags.IntVar(&listPage, "page", 1, "page number")
	flags.IntVar(&listLimit, "limit", catalog.DefaultLimit, "page size")
	_ = listCmd.MarkFlagRequired("collection")
}

func writeTable(w io.Writer, products []models.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOLOR\tNUMBER\tPRICE\tAVAILABLE")
	for _, p := range products {
		price := "-"
		if p.PriceMin.Valid {
			price = p.PriceMin.Decimal.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			p.ID, deref(p.Title), deref(p.Color), deref(p.Number), price, p.Available)
	}
	tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
