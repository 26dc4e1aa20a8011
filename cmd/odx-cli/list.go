package main

import (
	"fmt"
	"io"

	"github.com/gavinwade12/odx"
	"github.com/spf13/cobra"
)

var listVariants bool
var listServices bool
var listParams bool
var listDops bool
var listAll bool

func init() {
	listCmd.Flags().BoolVar(&listVariants, "variants", false, "list the variant layers")
	listCmd.Flags().BoolVar(&listServices, "services", false, "list the services of every variant")
	listCmd.Flags().BoolVar(&listParams, "params", false, "list the request parameters of every service")
	listCmd.Flags().BoolVar(&listDops, "dops", false, "list the data object properties of every variant")
	listCmd.Flags().BoolVar(&listAll, "all", false, "list everything")

	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:          "list <pdx-file>",
	Short:        "List the content of a diagnostic database.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := loadDatabase(args[0])
		if err != nil {
			return err
		}

		services := listServices || listParams || listAll
		w := cmd.OutOrStdout()
		for _, variant := range db.Variants() {
			fmt.Fprintf(w, "%s (%s)\n", variant.ShortName, variant.LayerType)
			if services {
				for _, service := range variant.Services() {
					listService(w, service)
				}
				for _, job := range variant.SingleEcuJobs() {
					fmt.Fprintf(w, "  job %s\n", job.ShortName)
				}
			}
			if listDops || listAll {
				for _, dop := range variant.DataObjectProperties().Items() {
					fmt.Fprintf(w, "  dop %s (%s)\n", dop.ShortName, dop.PhysicalType.BaseDataType)
				}
			}
		}
		return nil
	},
}

func listService(w io.Writer, service *odx.DiagService) {
	fmt.Fprintf(w, "  service %s", service.ShortName)
	if request := service.Request(); request != nil {
		if prefix := request.CodedConstPrefix(nil); len(prefix) > 0 {
			fmt.Fprintf(w, "  [% X ...]", prefix)
		}
	}
	fmt.Fprintln(w)

	if !listParams && !listAll {
		return
	}
	request := service.Request()
	if request == nil {
		return
	}
	for _, param := range request.Parameters.Items() {
		required := ""
		if param.IsRequired() {
			required = " (required)"
		}
		fmt.Fprintf(w, "    param %s%s\n", param.Name(), required)
	}
}
