package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shelfstock/internal/core"
)

type moveFunc func(ctx context.Context, batchID int64, n int) (core.Batch, error)

// shelfstock stock sell|restock|set-shelf
func newStockCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Move units between backroom, shelf and customers"}

	cmd.AddCommand(moveCmd("sell", "Sell units from the shelf", func(a *app) moveFunc { return a.inv.Sell }, get))
	cmd.AddCommand(moveCmd("restock", "Move units from the backroom to the shelf", func(a *app) moveFunc { return a.inv.Restock }, get))
	cmd.AddCommand(moveCmd("set-shelf", "Set the shelf count of a batch", func(a *app) moveFunc { return a.inv.SetShelfQuantity }, get))
	return cmd
}

func moveCmd(use, short string, pick func(*app) moveFunc, get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <batch-id> <quantity>", use),
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("batch", args[0])
			if err != nil {
				return err
			}
			n, err := parseCount("quantity", args[1])
			if err != nil {
				return err
			}
			b, err := pick(get())(cmd.Context(), id, n)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	}
}
