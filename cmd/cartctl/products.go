package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProductsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List every product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := opts.productService().GetAll(commandContext(cmd))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Price.String())
			}
			return tw.Flush()
		},
	}
}

func newProductCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.productService().GetByID(commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(opts.out, "ID:          %s\n", p.ID)
			fmt.Fprintf(opts.out, "Name:        %s\n", p.Name)
			fmt.Fprintf(opts.out, "Explanation: %s\n", p.Explanation)
			fmt.Fprintf(opts.out, "Price:       %s\n", p.Price.String())
			if p.ThumbnailURL != "" {
				fmt.Fprintf(opts.out, "Thumbnail:   %s\n", p.ThumbnailURL)
			}
			return nil
		},
	}
}
