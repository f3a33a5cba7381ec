package main

import (
	"context"

	"github.com/An-Noor-Team/An-Noor-Store/internal/cli"
	"github.com/An-Noor-Team/An-Noor-Store/internal/presentation/tui"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/spf13/cobra"
)

type cartView struct {
	SessionID string      `json:"session_id"`
	Items     domain.Cart `json:"items"`
	Subtotal  int64       `json:"subtotal"`
	Count     int         `json:"count"`
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "View and change the session cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE: withCart(func(ctx context.Context, rt *cli.Runtime, session string, args []string) (domain.Cart, error) {
		return rt.Shop.Cart(ctx, session)
	}),
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [qty]",
	Short: "Add a product (qty defaults to 1)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withCart(func(ctx context.Context, rt *cli.Runtime, session string, args []string) (domain.Cart, error) {
		qty := 1
		if len(args) == 2 {
			qty = domain.ParseQty(args[1])
		}
		return rt.Shop.AddProduct(ctx, session, args[0], qty)
	}),
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty <product-id> <qty>",
	Short: "Set the quantity of a product (values below 1 become 1)",
	Args:  cobra.ExactArgs(2),
	RunE: withCart(func(ctx context.Context, rt *cli.Runtime, session string, args []string) (domain.Cart, error) {
		return rt.Shop.SetQty(ctx, session, args[0], domain.ParseQty(args[1]))
	}),
}

var cartRmCmd = &cobra.Command{
	Use:   "rm <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: withCart(func(ctx context.Context, rt *cli.Runtime, session string, args []string) (domain.Cart, error) {
		return rt.Shop.Remove(ctx, session, args[0])
	}),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: withCart(func(ctx context.Context, rt *cli.Runtime, session string, args []string) (domain.Cart, error) {
		return rt.Shop.Clear(ctx, session)
	}),
}

type cartOp func(ctx context.Context, rt *cli.Runtime, session string, args []string) (domain.Cart, error)

// withCart wires the shop, runs op and prints the resulting cart.
func withCart(op cartOp) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer rt.Close()

		session := sessionFlag(cmd)
		cart, err := op(cmd.Context(), rt, session, args)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = domain.Cart{}
		}
		view := cartView{SessionID: session, Items: cart, Subtotal: cart.Subtotal(), Count: cart.ItemCount()}
		return output(cmd, view, tui.CartMarkdown(session, cart))
	}
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartRmCmd)
	cartCmd.AddCommand(cartClearCmd)
}
