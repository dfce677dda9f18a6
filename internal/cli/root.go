// Package cli implements huddlectl, the offline front end to the balancer.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the huddlectl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "huddlectl",
		Short: "Form balanced student groups from a roster file",
		Long: `huddlectl runs the Huddle balancer locally against a YAML roster,
without a database or a running server. It prints the groups it would
create together with their skill totals and imbalance insights.`,
		SilenceUsage: true,
	}
	root.AddCommand(newBalanceCmd())
	return root
}
