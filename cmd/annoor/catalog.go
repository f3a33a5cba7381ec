package main

import (
	"github.com/An-Noor-Team/An-Noor-Store/internal/presentation/tui"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the products for sale",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all products",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		products := cat.List()
		return output(cmd, products, tui.ProductsMarkdown(products))
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show a product with its specs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		p, err := cat.Get(args[0])
		if err != nil {
			return err
		}
		return output(cmd, p, tui.ProductMarkdown(p))
	},
}

// loadCatalog reads the catalog without opening the cart store.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}
