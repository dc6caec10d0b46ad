package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olusolaa/arrayctl/internal/core/service"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds arrayctl manages",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := service.NewDefaultPolicyRegistry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintln(tw, "Kind\tKeys\tCreate\tModify\tDelete\tFields")
			for _, kind := range registry.Kinds() {
				p, err := registry.Policy(kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", kind, strings.Join(p.KeyFields, ","),
					yesNo(p.AllowCreate), yesNo(p.AllowModify), yesNo(p.AllowDelete), strings.Join(p.FieldNames(), ","))
			}
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
