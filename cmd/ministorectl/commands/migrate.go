package commands

import (
	"github.com/spf13/cobra"

	"github.com/ridloal/mini-store/cmd/ministorectl/output"
	"github.com/ridloal/mini-store/internal/platform/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the store tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		output.Success("Schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
