package pulsecare

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/config"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/provider/openfoodfacts"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/provider/usda"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the food and activity catalogs",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load foods, activities, exercises and wellness videos from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			res, err := seedFromFile(cmd.Context(), sqldb, args[0])
			if err != nil {
				return err
			}
			printSeedResult(cmd, res)
			return nil
		})
	},
}

var importProvider string

// barcodeLookup builds the provider chain for --provider. "auto" tries Open
// Food Facts first and USDA second when a USDA key is configured.
func barcodeLookup(cfg config.Config, provider string) (service.BarcodeLookup, error) {
	off := service.NamedLookup{Name: "openfoodfacts", Lookup: &openfoodfacts.Client{BaseURL: cfg.OpenFoodFacts.BaseURL}}
	fdc := service.NamedLookup{Name: "usda", Lookup: &usda.Client{APIKey: cfg.USDA.APIKey, BaseURL: cfg.USDA.BaseURL}}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "auto":
		chain := service.FallbackLookup{off}
		if cfg.USDA.APIKey != "" {
			chain = append(chain, fdc)
		}
		return chain, nil
	case "openfoodfacts", "off":
		return service.FallbackLookup{off}, nil
	case "usda":
		return service.FallbackLookup{fdc}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (allowed: auto, openfoodfacts, usda)", provider)
	}
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <barcode>",
	Short: "Import a food by barcode from Open Food Facts or USDA FoodData Central",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lookup, err := barcodeLookup(cfg, importProvider)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			food, err := service.ImportFoodFromBarcode(cmd.Context(), sqldb, lookup, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported food %d: %s (%.1f kcal, P %.1fg, C %.1fg, F %.1fg per 100g)\n",
				food.ID, food.Name, food.Calories, food.Protein, food.Carbs, food.Fat)
			return nil
		})
	},
}

var remoteSearchLimit int

var catalogRemoteSearchCmd = &cobra.Command{
	Use:   "search-remote <query>",
	Short: "Search Open Food Facts without importing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := &openfoodfacts.Client{BaseURL: cfg.OpenFoodFacts.BaseURL}
		products, err := client.SearchProducts(cmd.Context(), args[0], remoteSearchLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "BARCODE\tNAME\tKCAL/100G")
		for _, p := range products {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1f\n", p.Code, p.DisplayName(), p.Per100g.Calories)
		}
		return nil
	},
}

var catalogFoodsCmd = &cobra.Command{
	Use:   "foods <term>",
	Short: "Search local foods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.SearchFoods(cmd.Context(), sqldb, args[0], 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tKCAL\tP\tC\tF")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\n", f.ID, f.Name, f.Calories, f.Protein, f.Carbs, f.Fat)
			}
			return nil
		})
	},
}

var catalogActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List activity types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListActivityTypes(cmd.Context(), sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tKCAL/MIN/KG")
			for _, a := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%.4f\n", a.ID, a.Name, a.CaloriesPerMinPerKg)
			}
			return nil
		})
	},
}

func seedFromFile(ctx context.Context, sqldb *sql.DB, path string) (service.SeedResult, error) {
	seed, err := service.LoadCatalogSeed(path)
	if err != nil {
		return service.SeedResult{}, err
	}
	return service.SeedCatalog(ctx, sqldb, seed)
}

func printSeedResult(cmd *cobra.Command, res service.SeedResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d foods, %d activities, %d exercises, %d wellness videos\n",
		res.Foods, res.Activities, res.Exercises, res.WellnessVideos)
}

func init() {
	catalogImportCmd.Flags().StringVar(&importProvider, "provider", "auto", "auto, openfoodfacts or usda")
	catalogRemoteSearchCmd.Flags().IntVar(&remoteSearchLimit, "limit", 10, "Maximum results")

	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogRemoteSearchCmd)
	catalogCmd.AddCommand(catalogFoodsCmd)
	catalogCmd.AddCommand(catalogActivitiesCmd)
	rootCmd.AddCommand(catalogCmd)
}
