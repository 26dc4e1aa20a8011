package main

import (
	"fmt"

	"github.com/gavinwade12/odx"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exampleCmd)
}

var exampleCmd = &cobra.Command{
	Use:          "example <pdx-file>",
	Short:        "Write the built-in example database as a PDX container.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load it once to make sure the shipped documents are sound.
		if _, err := odx.LoadDemoDatabase(); err != nil {
			return err
		}
		if err := odx.WriteDemoPDX(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote example database to %s\n", args[0])
		return nil
	},
}
