package pulsecare

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local pulsecare database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sqldb, err := openDB(cmd.Context(), cfg.Database.Path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		if cfg.Catalog.SeedFile != "" {
			res, err := seedFromFile(cmd.Context(), sqldb, cfg.Catalog.SeedFile)
			if err != nil {
				return err
			}
			printSeedResult(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized pulsecare database at %s\n", cfg.Database.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
