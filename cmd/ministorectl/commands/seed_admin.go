package commands

import (
	"github.com/spf13/cobra"

	"github.com/ridloal/mini-store/cmd/ministorectl/output"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/config"
	userRepo "github.com/ridloal/mini-store/internal/user/repository"
	userService "github.com/ridloal/mini-store/internal/user/service"
)

var (
	adminUserName string
	adminPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account when no admin exists",
	Long: `Create the admin account when no admin exists.

Username and password default to ADMIN_USERNAME and ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		authCfg := config.LoadAuthConfig()
		if adminUserName == "" {
			adminUserName = authCfg.AdminUserName
		}
		if adminPassword == "" {
			adminPassword = authCfg.AdminPassword
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		accounts := userService.NewAccountService(userRepo.NewPostgresUserRepository(db), auth.NewTokenManager(authCfg), authCfg)
		created, err := accounts.EnsureAdmin(ctx, adminUserName, adminPassword)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(map[string]any{"created": created, "userName": adminUserName})
		}
		if created {
			output.Success("Admin %q created", adminUserName)
		} else {
			output.Warning("An admin account already exists; nothing to do")
		}
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&adminUserName, "username", "", "Admin username")
	seedAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	rootCmd.AddCommand(seedAdminCmd)
}
