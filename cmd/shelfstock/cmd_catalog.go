package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shelfstock/internal/core"
)

type appFunc func() *app

type deleteFunc func(ctx context.Context, id int64) error

// shelfstock section create|list|delete
func newSectionCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "section", Short: "Manage sections"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := get().inv.CreateSection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sec)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sections by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := get().inv.ListSections(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(sections))
		},
	})
	cmd.AddCommand(deleteCmd("section", "Delete a section with everything under it", func(a *app) deleteFunc {
		return a.inv.DeleteSection
	}, get))
	return cmd
}

// shelfstock type create|list|delete
func newTypeCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "type", Short: "Manage product types"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <section-id> <name>",
		Short: "Create a type inside a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			typ, err := get().inv.CreateType(cmd.Context(), sectionID, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), typ)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <section-id>",
		Short: "List the types of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			types, err := get().inv.ListTypes(cmd.Context(), sectionID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(types))
		},
	})
	cmd.AddCommand(deleteCmd("type", "Delete a type with its products and batches", func(a *app) deleteFunc {
		return a.inv.DeleteType
	}, get))
	return cmd
}

// shelfstock product create|list|delete|search
func newProductCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "product", Short: "Manage products"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <type-id> <name>",
		Short: "Create a product inside a type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, err := parseID("type", args[0])
			if err != nil {
				return err
			}
			p, err := get().inv.CreateProduct(cmd.Context(), typeID, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <type-id>",
		Short: "List the products of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, err := parseID("type", args[0])
			if err != nil {
				return err
			}
			products, err := get().inv.ListProducts(cmd.Context(), typeID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(products))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "search [term]",
		Short: "Find products whose name contains term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var term string
			if len(args) == 1 {
				term = args[0]
			}
			products, err := get().inv.SearchProducts(cmd.Context(), term)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(products))
		},
	})
	cmd.AddCommand(deleteCmd("product", "Delete a product with its batches", func(a *app) deleteFunc {
		return a.inv.DeleteProduct
	}, get))
	return cmd
}

// shelfstock batch create|list|get|delete|expiring
func newBatchCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "batch", Short: "Manage batches"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <product-id> <expiry> <total> <shelf>",
		Short: "Create a batch; expiry is YYYY-MM-DD",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			expiry, err := core.ParseDate(args[1])
			if err != nil {
				return err
			}
			total, err := parseCount("total quantity", args[2])
			if err != nil {
				return err
			}
			shelf, err := parseCount("shelf quantity", args[3])
			if err != nil {
				return err
			}

			b, err := get().inv.CreateBatch(cmd.Context(), productID, core.BatchInput{
				ExpiryDate:    expiry,
				TotalQuantity: total,
				ShelfQuantity: shelf,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <product-id>",
		Short: "List the batches of a product, soonest expiry first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			batches, err := get().inv.ListBatches(cmd.Context(), productID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(batches))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <batch-id>",
		Short: "Show one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("batch", args[0])
			if err != nil {
				return err
			}
			b, err := get().inv.GetBatch(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	})
	cmd.AddCommand(deleteCmd("batch", "Delete a batch", func(a *app) deleteFunc {
		return a.inv.DeleteBatch
	}, get))

	var days int
	expiring := &cobra.Command{
		Use:   "expiring",
		Short: "List batches expiring within --days days, including expired ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := get().inv.BatchesExpiringWithin(cmd.Context(), days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(batches))
		},
	}
	expiring.Flags().IntVar(&days, "days", 7, "window in days from today")
	cmd.AddCommand(expiring)

	return cmd
}

// deleteCmd builds "<what> delete <id>".
func deleteCmd(what, short string, pick func(*app) deleteFunc, get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <" + what + "-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(what, args[0])
			if err != nil {
				return err
			}
			if err := pick(get())(cmd.Context(), id); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": id, "kind": what})
		},
	}
}
