package commands

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ridloal/mini-store/cmd/ministorectl/output"
	"github.com/ridloal/mini-store/internal/platform/cache"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/search"
	productRepo "github.com/ridloal/mini-store/internal/product/repository"
	productService "github.com/ridloal/mini-store/internal/product/service"
)

var importIDs []int

// newCatalog wires the catalog the same way the product service does.
func newCatalog(db *sql.DB) (productService.CatalogService, func(), error) {
	catalogCfg := config.LoadCatalogConfig()

	esClient, err := search.NewClient(config.LoadSearchConfig())
	if err != nil {
		return nil, nil, err
	}
	redisClient := cache.NewRedisClient(config.LoadRedisConfig())

	catalog := productService.NewCatalogService(
		productRepo.NewPostgresProductRepository(db),
		productRepo.NewElasticProductIndex(esClient),
		cache.NewRedisCache(redisClient),
		productService.NewExternalCatalogClient(catalogCfg.ExternalProductsURL),
		catalogCfg,
	)
	return catalog, func() { _ = redisClient.Close() }, nil
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every stored product to the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		catalog, closeCatalog, err := newCatalog(db)
		if err != nil {
			return err
		}
		defer closeCatalog()

		result, err := catalog.Reindex(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(result)
		}
		output.Success("Indexed %d products", result.Indexed)
		if result.Removed > 0 {
			output.Success("Removed %d stale documents", result.Removed)
		}
		if result.Failed > 0 {
			output.Warning("%d documents could not be updated", result.Failed)
		}
		return nil
	},
}

var externalProductsCmd = &cobra.Command{
	Use:   "external-products",
	Short: "List the external product feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		client := productService.NewExternalCatalogClient(config.LoadCatalogConfig().ExternalProductsURL)
		items, err := client.ListProducts(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(items)
		}

		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				strconv.Itoa(item.ID),
				item.Title,
				strconv.FormatFloat(item.Price, 'f', 2, 64),
				item.Category,
			})
		}
		output.Table([]string{"ID", "TITLE", "PRICE", "CATEGORY"}, rows)
		output.Muted("%d items", len(items))
		return nil
	},
}

var importProductsCmd = &cobra.Command{
	Use:   "import-products",
	Short: "Import feed items into the catalog",
	Long: `Import feed items into the catalog. Imported products are indexed and
the cached product list is invalidated.

Examples:
  ministorectl import-products --id 1 --id 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(importIDs) == 0 {
			return cmd.Usage()
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		catalog, closeCatalog, err := newCatalog(db)
		if err != nil {
			return err
		}
		defer closeCatalog()

		failed := 0
		for _, id := range importIDs {
			p, err := catalog.ImportExternalProduct(ctx, id)
			if err != nil {
				output.Error("Feed item %d: %v", id, err)
				failed++
				continue
			}
			output.Success("Feed item %d imported as %s (%s)", id, p.ID, p.Name)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d imports failed", failed, len(importIDs))
		}
		return nil
	},
}

func init() {
	importProductsCmd.Flags().IntSliceVar(&importIDs, "id", nil, "Feed item id to import (repeatable)")
	rootCmd.AddCommand(reindexCmd, externalProductsCmd, importProductsCmd)
}
