package pulsecare

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/logger"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Manage water, sleep and workout reminders",
}

var (
	reminderUser      string
	reminderType      string
	reminderFrequency int
	reminderTime      string
	reminderActive    bool
)

func describeSchedule(s model.Schedule) string {
	switch v := s.(type) {
	case model.WaterSchedule:
		return fmt.Sprintf("every %d min", v.FrequencyMinutes)
	case model.SleepSchedule:
		return "at " + v.TimeOfDay.String()
	case model.WorkoutSchedule:
		return "at " + v.TimeOfDay.String()
	default:
		return ""
	}
}

func printReminders(cmd *cobra.Command, items []model.Reminder) {
	now := clock.Now()
	fmt.Fprintln(cmd.OutOrStdout(), "ID\tTYPE\tSCHEDULE\tACTIVE\tNEXT DUE")
	for _, r := range items {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%t\t%s\n",
			r.ID, r.Type(), describeSchedule(r.Schedule), r.Active, r.NextDue(now).Local().Format("2006-01-02 15:04"))
	}
}

var reminderSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the reminder of a type",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.ReminderInput{Type: reminderType}
		if cmd.Flags().Changed("frequency") {
			in.FrequencyMinutes = &reminderFrequency
		}
		if cmd.Flags().Changed("time") {
			in.TimeOfDay = &reminderTime
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.Env)
		if err != nil {
			return err
		}
		defer logger.Sync(log)

		schedule, err := service.BuildSchedule(in, log)
		if err != nil {
			return err
		}
		return withUser(cmd.Context(), reminderUser, func(sqldb *sql.DB, userID string) error {
			r, err := service.UpsertReminder(cmd.Context(), sqldb, userID, schedule)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s reminder %d (%s)\n", r.Type(), r.ID, describeSchedule(r.Schedule))
			return nil
		})
	},
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), reminderUser, func(sqldb *sql.DB, userID string) error {
			items, err := service.ListReminders(cmd.Context(), sqldb, userID)
			if err != nil {
				return err
			}
			printReminders(cmd, items)
			return nil
		})
	},
}

var reminderDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List active reminders that are due now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(cmd.Context(), reminderUser, func(sqldb *sql.DB, userID string) error {
			items, err := service.DueReminders(cmd.Context(), sqldb, clock, userID)
			if err != nil {
				return err
			}
			printReminders(cmd, items)
			return nil
		})
	},
}

var reminderToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("reminder id", args[0])
		if err != nil {
			return err
		}
		return withUser(cmd.Context(), reminderUser, func(sqldb *sql.DB, userID string) error {
			r, err := service.ToggleReminder(cmd.Context(), sqldb, userID, id, reminderActive)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder %d active: %t\n", r.ID, r.Active)
			return nil
		})
	},
}

var reminderTriggerCmd = &cobra.Command{
	Use:   "trigger <id>",
	Short: "Mark a reminder as fired now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("reminder id", args[0])
		if err != nil {
			return err
		}
		return withUser(cmd.Context(), reminderUser, func(sqldb *sql.DB, userID string) error {
			r, err := service.MarkReminderTriggered(cmd.Context(), sqldb, clock, userID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder %d next due %s\n", r.ID, r.NextDue(clock.Now()).Local().Format(time.RFC3339))
			return nil
		})
	},
}

var reminderDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("reminder id", args[0])
		if err != nil {
			return err
		}
		return withUser(cmd.Context(), reminderUser, func(sqldb *sql.DB, userID string) error {
			if err := service.DeleteReminder(cmd.Context(), sqldb, userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted reminder %d\n", id)
			return nil
		})
	},
}

func init() {
	reminderCmd.PersistentFlags().StringVar(&reminderUser, "user", "", "Username")

	reminderSetCmd.Flags().StringVar(&reminderType, "type", "", "water, sleep or workout")
	reminderSetCmd.Flags().IntVar(&reminderFrequency, "frequency", 0, "Minutes between water reminders")
	reminderSetCmd.Flags().StringVar(&reminderTime, "time", "", "Time of day HH:MM for sleep and workout reminders")
	_ = reminderSetCmd.MarkFlagRequired("type")

	reminderToggleCmd.Flags().BoolVar(&reminderActive, "active", true, "Whether the reminder is active")

	reminderCmd.AddCommand(reminderSetCmd)
	reminderCmd.AddCommand(reminderListCmd)
	reminderCmd.AddCommand(reminderDueCmd)
	reminderCmd.AddCommand(reminderToggleCmd)
	reminderCmd.AddCommand(reminderTriggerCmd)
	reminderCmd.AddCommand(reminderDeleteCmd)
	rootCmd.AddCommand(reminderCmd)
}
