package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emrzvv/bgamma/internal/quadrature"
)

func newRuleCommand(_ *rootOptions) *cobra.Command {
	var order int

	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Print Gauss-Legendre nodes and weights on [0, 1]",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := quadrature.BuildRule(order)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "i\tnode\tweight")
			for i := 0; i < r.Order(); i++ {
				x, w := r.Node(i)
				fmt.Fprintf(out, "%d\t%.17g\t%.17g\n", i, x, w)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&order, "order", quadrature.DefaultOrder, "number of nodes")
	return cmd
}
