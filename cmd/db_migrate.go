package cmd

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// migrateCmd creates or upgrades the local snapshot tables
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"initdb"},
	Short:   "create or upgrade snapshot database tables",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("database migration failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
