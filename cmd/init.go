package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the library database and bring its schema up to date",
	Long: `Creates the configured database file with the full schema, or applies
any missing schema pieces to an existing one. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		fmt.Printf("library ready at %s\n", st.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
