package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

func newLocalesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List supported locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := testmail.DefaultRegistry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTAG\t")
			for _, l := range reg.Locales() {
				mark := ""
				if l.Default {
					mark = "default"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Name, l.Tag, mark)
			}
			return tw.Flush()
		},
	}
}
