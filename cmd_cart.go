package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"bookstall/app"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and change the persisted shopping cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShop(func(shop *app.Shop) error {
			printCart(cmd.OutOrStdout(), shop)
			return nil
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <book-id>",
	Short: "Add one copy of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCartAction(cmd, app.AddToCart{ID: args[0]}, args[0])
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <book-id>",
	Short: "Remove a book from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCartAction(cmd, app.RemoveFromCart{ID: args[0]}, "")
	},
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty <book-id> <delta>",
	Short: "Change the quantity of a cart entry (never below 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta %q: %w", args[1], err)
		}
		return runCartAction(cmd, app.ChangeQty{ID: args[0], Delta: delta}, "")
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShop(func(shop *app.Shop) error {
			if err := shop.Cart().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		})
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place the order and empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShop(func(shop *app.Shop) error {
			if shop.Cart().Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Your cart is empty.")
				return nil
			}
			st, err := shop.Dispatch(shop.InitialState(), app.PlaceOrder{})
			if st.Notice != "" {
				fmt.Fprintln(cmd.OutOrStdout(), st.Notice)
			}
			return err
		})
	},
}

func init() {
	cartCmd.AddCommand(cartListCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartCheckoutCmd)
}

// runCartAction applies a to the persisted cart and prints the result.
// mustExist names a book id that has to be in the catalog.
func runCartAction(cmd *cobra.Command, a app.Action, mustExist string) error {
	return withShop(func(shop *app.Shop) error {
		if mustExist != "" {
			if _, ok := shop.Catalog().Get(mustExist); !ok {
				return fmt.Errorf("no book with id %q in the catalog", mustExist)
			}
		}
		if _, err := shop.Dispatch(shop.InitialState(), a); err != nil {
			return err
		}
		printCart(cmd.OutOrStdout(), shop)
		return nil
	})
}

func printCart(out io.Writer, shop *app.Shop) {
	c := shop.Cart()
	if c.Len() == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tTOTAL")
	for _, e := range c.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", e.Book.ID, e.Book.Title, e.Qty, app.FormatPrice(e.Book.Price), app.FormatPrice(e.LineTotal()))
	}
	tw.Flush()
	fmt.Fprintf(out, "Subtotal: %s (%d item(s))\n", app.FormatPrice(c.Subtotal()), c.TotalItems())
}
