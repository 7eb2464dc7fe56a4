package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ManuC12/Raices-de-vida/internal/catalog"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the products table migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDriver(a.cfg); err != nil {
				return err
			}
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()
			a.log.Info("migrations applied", zap.String("driver", a.cfg.Catalog.Driver))
			return nil
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and seed the product catalog",
	}
	cmd.AddCommand(newCatalogListCmd(a), newCatalogShowCmd(a), newCatalogImportCmd(a))
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	var category, tag, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products the way the shop page filters them",
		Example: `  storefront catalog list --category candles --tag Warm
  storefront catalog list --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := domain.ParseCategoryFilter(category)
			if err != nil {
				return err
			}

			repo, err := a.openRepository()
			if err != nil {
				a.log.Warn("products table unavailable, listing built-in catalog", zap.Error(err))
			}
			if repo != nil {
				defer repo.Close()
			}

			products := a.newCatalog(repo).Browse(cmd.Context(), filter, tag)
			return writeProducts(cmd.OutOrStdout(), products, format)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "candles, diffusers or combos (default all)")
	cmd.Flags().StringVar(&tag, "tag", catalog.ShowAll, "sub-filter tag")
	cmd.Flags().StringVar(&format, "format", "table", "table or yaml")
	return cmd
}

func writeProducts(w io.Writer, products []domain.Product, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(map[string]any{"products": products})
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tCATEGORY\tPRICE\tSTOCK\tTAGS")
		for _, p := range products {
			fmt.Fprintf(tw, "%s\t%s\t%.0f\t%d\t%s\n", p.Slug, p.Category, p.Price, p.TotalStock(), strings.Join(p.Tags, ","))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newCatalogShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Print one row of the products table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDriver(a.cfg); err != nil {
				return err
			}
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			p, err := repo.ProductBySlug(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(p)
		},
	}
}

func newCatalogImportCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert products into the products table",
		Long: `Upserts the built-in products, or those of a YAML file laid out like
internal/catalog/data/catalog.yaml, into the configured products table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDriver(a.cfg); err != nil {
				return err
			}

			products := catalog.Fallback()
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				if products, err = catalog.ParseProducts(data); err != nil {
					return err
				}
			}

			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.ImportProducts(cmd.Context(), products); err != nil {
				return err
			}
			a.log.Info("catalog imported", zap.Int("products", len(products)))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d products\n", len(products))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to import instead of the built-in one")
	return cmd
}
