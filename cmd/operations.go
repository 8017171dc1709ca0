package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/spf13/cobra"
)

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the remote operations and their fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "OPERATION\tFIELDS\tATTRS\tUNWRAP")
		for _, op := range econnect.Operations() {
			fields := make([]string, 0, len(op.Fields))
			for _, f := range op.Fields {
				fields = append(fields, f.Name+":"+f.Kind.String())
			}
			attrs := "-"
			if op.Attributes {
				attrs = "yes"
			}
			unwrap := op.Unwrap
			if unwrap == "" {
				unwrap = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Name, strings.Join(fields, ","), attrs, unwrap)
		}
		return tw.Flush()
	},
}
