package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"bookstall/app"
	"bookstall/models"
	"bookstall/search"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	searchMax        string
	searchCategories []string
	searchSort       string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Filter and sort the catalog from the command line",
	Long: `Prints the catalog books matching the query and filters, in the same
order the storefront would show them.

Examples:
  bookstall search go
  bookstall search --max 20 --category Tech --sort price-asc`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMax, "max", "", "Price ceiling (default: the most expensive book)")
	searchCmd.Flags().StringSliceVar(&searchCategories, "category", nil, "Restrict to these categories (repeatable)")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(models.SortRelevance), "relevance, price-asc, price-desc, rating or newest")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	criteria := models.Criteria{
		Query:    strings.Join(args, " "),
		MaxPrice: cat.MaxPrice(),
		Sort:     models.ParseSortMode(searchSort),
	}
	if searchMax != "" {
		ceiling, err := decimal.NewFromString(searchMax)
		if err != nil {
			return fmt.Errorf("invalid --max %q: %w", searchMax, err)
		}
		if ceiling.IsNegative() {
			ceiling = decimal.Zero
		}
		criteria.MaxPrice = ceiling
	}
	for _, c := range searchCategories {
		criteria.Categories = append(criteria.Categories, models.Category(c))
	}

	results := search.Apply(cat.Books(), criteria, cfg.CurrentYear)

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No books match these filters.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE\tRATING")
	for _, b := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n", b.ID, b.Title, b.Author, b.Category, app.FormatPrice(b.Price), b.Rating)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d book(s)\n", len(results))
	return nil
}
