package pulsecare

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log and review meals",
}

var (
	mealUser   string
	mealFoodID int64
	mealGrams  float64
	mealType   string
	mealDate   string
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a food portion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), mealUser, func(sqldb *sql.DB, userID string) error {
			e, err := service.CreateMealEntry(cmd.Context(), sqldb, clock, service.CreateMealInput{
				UserID:   userID,
				FoodID:   mealFoodID,
				Grams:    mealGrams,
				MealDate: dateOrToday(mealDate),
				MealType: mealType,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal entry %d: %s %.0fg = %.1f kcal\n", e.ID, e.FoodName, e.Grams, e.Calories)
			return nil
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show a day's meals grouped by meal type",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), mealUser, func(sqldb *sql.DB, userID string) error {
			summary, err := service.MealDailySummary(cmd.Context(), sqldb, userID, dateOrToday(mealDate))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", summary.Date)
			for _, g := range summary.Groups {
				fmt.Fprintf(out, "%s: %.1f kcal\n", g.MealType, g.Totals.Calories)
				for _, e := range g.Entries {
					fmt.Fprintf(out, "  %d\t%s\t%.0fg\t%.1f kcal\tP %.1fg | C %.1fg | F %.1fg\n", e.ID, e.FoodName, e.Grams, e.Calories, e.Protein, e.Carbs, e.Fat)
				}
			}
			t := summary.Totals
			fmt.Fprintf(out, "Total: %.1f kcal | P %.1fg | C %.1fg | F %.1fg\n", t.Calories, t.Protein, t.Carbs, t.Fat)
			return nil
		})
	},
}

var mealUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change grams, food or meal type of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		var u service.MealUpdate
		if cmd.Flags().Changed("grams") {
			u.Grams = &mealGrams
		}
		if cmd.Flags().Changed("food-id") {
			u.FoodID = &mealFoodID
		}
		if cmd.Flags().Changed("type") {
			u.MealType = &mealType
		}
		return withUser(cmd.Context(), mealUser, func(sqldb *sql.DB, userID string) error {
			e, err := service.UpdateMealEntry(cmd.Context(), sqldb, userID, id, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated meal entry %d: %s %.0fg = %.1f kcal (%s)\n", e.ID, e.FoodName, e.Grams, e.Calories, e.MealType)
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withUser(cmd.Context(), mealUser, func(sqldb *sql.DB, userID string) error {
			if err := service.DeleteMealEntry(cmd.Context(), sqldb, userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal entry %d\n", id)
			return nil
		})
	},
}

func init() {
	mealCmd.PersistentFlags().StringVar(&mealUser, "user", "", "Username")

	mealAddCmd.Flags().Int64Var(&mealFoodID, "food-id", 0, "Food id")
	mealAddCmd.Flags().Float64Var(&mealGrams, "grams", 0, "Portion in grams")
	mealAddCmd.Flags().StringVar(&mealType, "type", "", "Breakfast, Lunch, Dinner or Snack")
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Date YYYY-MM-DD (default today)")
	_ = mealAddCmd.MarkFlagRequired("food-id")
	_ = mealAddCmd.MarkFlagRequired("grams")
	_ = mealAddCmd.MarkFlagRequired("type")

	mealListCmd.Flags().StringVar(&mealDate, "date", "", "Date YYYY-MM-DD (default today)")

	mealUpdateCmd.Flags().Int64Var(&mealFoodID, "food-id", 0, "New food id")
	mealUpdateCmd.Flags().Float64Var(&mealGrams, "grams", 0, "New portion in grams")
	mealUpdateCmd.Flags().StringVar(&mealType, "type", "", "New meal type")

	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealUpdateCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	rootCmd.AddCommand(mealCmd)
}
