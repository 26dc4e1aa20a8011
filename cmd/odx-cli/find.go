package main

import (
	"fmt"

	"github.com/gavinwade12/odx"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:          "find <pdx-file> <service>...",
	Short:        "Locate services by name across all variants.",
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := loadDatabase(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		found := false
		for _, name := range args[1:] {
			for _, variant := range db.Variants() {
				for _, service := range variant.Services() {
					if service.ShortName != name {
						continue
					}
					found = true
					fmt.Fprintf(w, "%s/%s", variant.ShortName, service.ShortName)
					if origin := variant.InheritedFrom(odx.EntityKindDiagComm, name); origin != nil {
						fmt.Fprintf(w, " (inherited from %s)", origin.ShortName)
					}
					if request := service.Request(); request != nil {
						if prefix := request.CodedConstPrefix(nil); len(prefix) > 0 {
							fmt.Fprintf(w, "  request [% X ...]", prefix)
						}
					}
					fmt.Fprintln(w)
				}
			}
		}
		if !found {
			return fmt.Errorf("no variant implements any of %v", args[1:])
		}
		return nil
	},
}
