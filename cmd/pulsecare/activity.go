package pulsecare

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Log and review activities",
}

var (
	activityUser     string
	activityTypeID   int64
	activityMinutes  float64
	activityCalories float64
	activityDate     string
)

var activityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log an activity; calories are estimated from profile weight unless given",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), activityUser, func(sqldb *sql.DB, userID string) error {
			calories := activityCalories
			if !cmd.Flags().Changed("calories") {
				derived, err := service.DeriveActivityCaloriesForUser(cmd.Context(), sqldb, userID, activityTypeID, activityMinutes, nil)
				if err != nil {
					return err
				}
				calories = derived
			}
			e, err := service.CreateActivityEntry(cmd.Context(), sqldb, clock, service.CreateActivityInput{
				UserID:          userID,
				ActivityID:      activityTypeID,
				DurationMinutes: activityMinutes,
				CaloriesBurnt:   calories,
				ActivityDate:    dateOrToday(activityDate),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity entry %d: %s %.0f min = %.1f kcal\n", e.ID, e.ActivityName, e.DurationMinutes, e.CaloriesBurnt)
			return nil
		})
	},
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show a day's activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), activityUser, func(sqldb *sql.DB, userID string) error {
			summary, err := service.ActivityDailySummary(cmd.Context(), sqldb, userID, dateOrToday(activityDate))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", summary.Date)
			fmt.Fprintln(out, "ID\tACTIVITY\tMIN\tKCAL")
			for _, e := range summary.Entries {
				fmt.Fprintf(out, "%d\t%s\t%.0f\t%.1f\n", e.ID, e.ActivityName, e.DurationMinutes, e.CaloriesBurnt)
			}
			fmt.Fprintf(out, "Total: %.0f min, %.1f kcal\n", summary.Totals.DurationMinutes, summary.Totals.CaloriesBurnt)
			return nil
		})
	},
}

var activityUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change duration, activity type or calories of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("activity entry id", args[0])
		if err != nil {
			return err
		}
		var u service.ActivityUpdate
		if cmd.Flags().Changed("minutes") {
			u.DurationMinutes = &activityMinutes
		}
		if cmd.Flags().Changed("activity-id") {
			u.ActivityID = &activityTypeID
		}
		if cmd.Flags().Changed("calories") {
			u.CaloriesBurnt = &activityCalories
		}
		return withUser(cmd.Context(), activityUser, func(sqldb *sql.DB, userID string) error {
			e, err := service.UpdateActivityEntry(cmd.Context(), sqldb, userID, id, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity entry %d: %s %.0f min = %.1f kcal\n", e.ID, e.ActivityName, e.DurationMinutes, e.CaloriesBurnt)
			return nil
		})
	},
}

var activityDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("activity entry id", args[0])
		if err != nil {
			return err
		}
		return withUser(cmd.Context(), activityUser, func(sqldb *sql.DB, userID string) error {
			if err := service.DeleteActivityEntry(cmd.Context(), sqldb, userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted activity entry %d\n", id)
			return nil
		})
	},
}

func init() {
	activityCmd.PersistentFlags().StringVar(&activityUser, "user", "", "Username")

	activityAddCmd.Flags().Int64Var(&activityTypeID, "activity-id", 0, "Activity type id")
	activityAddCmd.Flags().Float64Var(&activityMinutes, "minutes", 0, "Duration in minutes")
	activityAddCmd.Flags().Float64Var(&activityCalories, "calories", 0, "Calories burnt (default: estimated)")
	activityAddCmd.Flags().StringVar(&activityDate, "date", "", "Date YYYY-MM-DD (default today)")
	_ = activityAddCmd.MarkFlagRequired("activity-id")
	_ = activityAddCmd.MarkFlagRequired("minutes")

	activityListCmd.Flags().StringVar(&activityDate, "date", "", "Date YYYY-MM-DD (default today)")

	activityUpdateCmd.Flags().Int64Var(&activityTypeID, "activity-id", 0, "New activity type id")
	activityUpdateCmd.Flags().Float64Var(&activityMinutes, "minutes", 0, "New duration in minutes")
	activityUpdateCmd.Flags().Float64Var(&activityCalories, "calories", 0, "New calories burnt")

	activityCmd.AddCommand(activityAddCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityUpdateCmd)
	activityCmd.AddCommand(activityDeleteCmd)
	rootCmd.AddCommand(activityCmd)
}
