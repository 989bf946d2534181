package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// shelfstock report
func newReportCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the section/type/product/batch stock rollup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := get().inv.Report(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), orEmpty(nodes))
		},
	}
}

// shelfstock export [--out file]
func newExportCmd(get appFunc) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every batch as CSV to stdout or --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return get().inv.ExportCSV(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := get().inv.ExportCSV(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"written": out})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write instead of stdout")
	return cmd
}

// shelfstock import <file>
func newImportCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole inventory with a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			summary, err := get().inv.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
}
