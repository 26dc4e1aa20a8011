package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gavinwade12/odx/uds"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:          "decode <pdx-file> <hex-bytes>",
	Short:        "Decode a raw diagnostic message against every variant.",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := loadDatabase(args[0])
		if err != nil {
			return err
		}

		cleaned := strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(args[1])
		message, err := hex.DecodeString(cleaned)
		if err != nil {
			return errors.Wrap(err, "parsing message bytes")
		}

		w := cmd.OutOrStdout()
		if description := uds.DescribeNegativeResponse(message); description != "" {
			fmt.Fprintln(w, description)
		}

		matched := false
		for _, variant := range db.Variants() {
			decoded, err := variant.DecodeMessage(message)
			if err != nil {
				continue
			}
			matched = true
			for _, m := range decoded {
				fmt.Fprintf(w, "%s/%s (%s):\n", variant.ShortName, m.Service.ShortName, m.Structure.ShortName)
				printValues(w, m.Values)
			}
		}
		if !matched {
			return errors.Errorf("no variant claims the message % X", message)
		}
		return nil
	},
}
