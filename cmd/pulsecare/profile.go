package pulsecare

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit the body profile",
}

var (
	profileUser          string
	profileUsername      string
	profileEmail         string
	profileSex           string
	profileDOB           string
	profileWeight        float64
	profileHeight        float64
	profileGoal          float64
	profileActivityLevel string
)

func printProfile(cmd *cobra.Command, v service.ProfileView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Username: %s\n", v.Username)
	fmt.Fprintf(out, "Email: %s\n", v.Email)
	fmt.Fprintf(out, "Sex: %s\n", v.Sex)
	fmt.Fprintf(out, "Date of birth: %s\n", v.DateOfBirth)
	if v.Age != nil {
		fmt.Fprintf(out, "Age: %d\n", *v.Age)
	}
	fmt.Fprintf(out, "Weight: %s\n", formatOptional(v.CurrentWeight, " kg"))
	fmt.Fprintf(out, "Height: %s\n", formatOptional(v.Height, " cm"))
	fmt.Fprintf(out, "Weight goal: %s\n", formatOptional(v.WeightGoal, " kg"))
	fmt.Fprintf(out, "Activity level: %s\n", v.ActivityLevel)
	fmt.Fprintf(out, "Today: %.1f kcal consumed, %.1f kcal burnt\n", v.CaloriesConsumedToday, v.CaloriesBurntToday)
	fmt.Fprintf(out, "Estimated daily calories: %s\n", formatOptional(v.EstimatedDailyCalories, " kcal"))
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile with today's totals and calorie estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), profileUser, func(sqldb *sql.DB, userID string) error {
			v, err := service.GetProfile(cmd.Context(), sqldb, clock, userID)
			if err != nil {
				return err
			}
			printProfile(cmd, v)
			return nil
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields; only the flags given are changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		var u service.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("username") {
			u.Username = &profileUsername
		}
		if flags.Changed("email") {
			u.Email = &profileEmail
		}
		if flags.Changed("sex") {
			u.Sex = &profileSex
		}
		if flags.Changed("dob") {
			u.DateOfBirth = &profileDOB
		}
		if flags.Changed("weight") {
			u.CurrentWeight = &profileWeight
		}
		if flags.Changed("height") {
			u.Height = &profileHeight
		}
		if flags.Changed("goal") {
			u.WeightGoal = &profileGoal
		}
		if flags.Changed("activity-level") {
			u.ActivityLevel = &profileActivityLevel
		}
		return withUser(cmd.Context(), profileUser, func(sqldb *sql.DB, userID string) error {
			v, err := service.UpdateProfile(cmd.Context(), sqldb, clock, userID, u)
			if err != nil {
				return err
			}
			printProfile(cmd, v)
			return nil
		})
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Record and review body weight",
}

var (
	weightUser  string
	weightValue float64
	weightDate  string
)

var weightAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a weight; with --date it backfills that day only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), weightUser, func(sqldb *sql.DB, userID string) error {
			if weightDate != "" {
				if err := service.RecordWeight(cmd.Context(), sqldb, userID, weightDate, weightValue); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.1f kg for %s\n", weightValue, weightDate)
				return nil
			}
			changed, err := service.RecordWeightIfChanged(cmd.Context(), sqldb, clock, userID, weightValue)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Weight unchanged at %.1f kg\n", weightValue)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.1f kg for today\n", weightValue)
			return nil
		})
	},
}

var weightHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded weights, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), weightUser, func(sqldb *sql.DB, userID string) error {
			items, err := service.WeightHistory(cmd.Context(), sqldb, userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tKG")
			for _, r := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f\n", r.RecordDate, r.Weight)
			}
			return nil
		})
	},
}

func init() {
	profileCmd.PersistentFlags().StringVar(&profileUser, "user", "", "Username")

	profileSetCmd.Flags().StringVar(&profileUsername, "username", "", "New username")
	profileSetCmd.Flags().StringVar(&profileEmail, "email", "", "Email address")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "Male, Female or Other (empty clears)")
	profileSetCmd.Flags().StringVar(&profileDOB, "dob", "", "Date of birth YYYY-MM-DD (empty clears)")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Current weight in kg")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().Float64Var(&profileGoal, "goal", 0, "Weight goal in kg")
	profileSetCmd.Flags().StringVar(&profileActivityLevel, "activity-level", "", "One of: "+strings.Join(service.ActivityLevels, ", "))

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)

	weightCmd.PersistentFlags().StringVar(&weightUser, "user", "", "Username")
	weightAddCmd.Flags().Float64Var(&weightValue, "weight", 0, "Weight in kg")
	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "Date YYYY-MM-DD (default today)")
	_ = weightAddCmd.MarkFlagRequired("weight")

	weightCmd.AddCommand(weightAddCmd)
	weightCmd.AddCommand(weightHistoryCmd)
	rootCmd.AddCommand(weightCmd)
}
