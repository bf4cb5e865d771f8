package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type cartOp func(ctx context.Context, svc service.CartService, store cart.Store, args []string) (*model.CartSummary, error)

func newCartCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
	}

	item := func(fn func(service.CartService, context.Context, cart.Store, string) (*model.CartSummary, error)) cartOp {
		return func(ctx context.Context, svc service.CartService, store cart.Store, args []string) (*model.CartSummary, error) {
			return fn(svc, ctx, store, args[0])
		}
	}

	cmd.AddCommand(
		cartSubcommand(opts, "show", "Show the reconciled cart", cobra.NoArgs,
			func(ctx context.Context, svc service.CartService, store cart.Store, _ []string) (*model.CartSummary, error) {
				return svc.View(ctx, store)
			}),
		cartSubcommand(opts, "add <id>", "Put one unit of a product in the cart", cobra.ExactArgs(1), item(service.CartService.Add)),
		cartSubcommand(opts, "remove <id>", "Take every unit of a product out of the cart", cobra.ExactArgs(1), item(service.CartService.Remove)),
		cartSubcommand(opts, "increase <id>", "Add one more unit of a product", cobra.ExactArgs(1), item(service.CartService.Increase)),
		cartSubcommand(opts, "decrease <id>", "Take one unit of a product out of the cart", cobra.ExactArgs(1), item(service.CartService.Decrease)),
		cartSubcommand(opts, "clear", "Empty the cart", cobra.NoArgs,
			func(ctx context.Context, svc service.CartService, store cart.Store, _ []string) (*model.CartSummary, error) {
				return svc.Clear(ctx, store)
			}),
	)

	return cmd
}

func cartSubcommand(opts *options, use, short string, args cobra.PositionalArgs, op cartOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store := opts.cartService()

			summary, err := op(commandContext(cmd), svc, store, args)
			if err != nil {
				return err
			}

			return printCart(opts, summary)
		},
	}
}

func printCart(opts *options, summary *model.CartSummary) error {
	if len(summary.Lines) == 0 {
		_, err := fmt.Fprintln(opts.out, "Cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOUNT\tPRICE\tSUBTOTAL")
	for _, line := range summary.Lines {
		subtotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Count)))
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			line.Product.ID, line.Product.Name, line.Count, line.Product.Price.String(), subtotal.String())
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", summary.TotalCount, summary.TotalPrice.String())

	return tw.Flush()
}
