package pulsecare

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var (
	userName     string
	userEmail    string
	userPassword string
)

var userRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			u, err := service.RegisterUser(cmd.Context(), sqldb, clock, service.RegisterUserInput{
				Username: userName,
				Email:    userEmail,
				Password: userPassword,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", u.Username, u.ID)
			return nil
		})
	},
}

func init() {
	userRegisterCmd.Flags().StringVar(&userName, "username", "", "Username")
	userRegisterCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userRegisterCmd.Flags().StringVar(&userPassword, "password", "", "Password (at least 6 characters)")
	_ = userRegisterCmd.MarkFlagRequired("username")
	_ = userRegisterCmd.MarkFlagRequired("email")
	_ = userRegisterCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userRegisterCmd)
	rootCmd.AddCommand(userCmd)
}
