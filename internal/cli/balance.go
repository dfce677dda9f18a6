package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
	"github.com/MikeSquared-Agency/Huddle/internal/scoring"
)

type balanceOptions struct {
	roster    string
	groups    int
	weights   string
	threshold float64
	json      bool
}

func newBalanceCmd() *cobra.Command {
	opts := &balanceOptions{}
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Split a roster into balanced groups",
		Long: `Split a roster into balanced groups.

Students are placed strongest first into the smallest, weakest group,
keeping experts in the same skill apart where it costs little. The
result is deterministic for a given roster and weights.

Examples:
  # Four groups with equal weights
  huddlectl balance --roster class.yaml --groups 4

  # Favour coding, ignore presenting, emit JSON
  huddlectl balance --roster class.yaml --groups 3 --weights 2,1,1,0 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBalance(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.roster, "roster", "r", "", "YAML roster file")
	cmd.Flags().IntVarP(&opts.groups, "groups", "g", 2, "number of groups to form")
	cmd.Flags().StringVarP(&opts.weights, "weights", "w", "", "skill weights as coding,design,writing,presenting")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", scoring.DefaultUnbalancedStdDev, "member-total std dev above which a group is flagged")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output JSON")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

type groupReport struct {
	balance.Group
	Students []balance.Student    `json:"students"`
	Insight  scoring.GroupInsight `json:"insight"`
}

type balanceReport struct {
	GroupCount  int                  `json:"group_count"`
	Weights     balance.SkillWeights `json:"weights"`
	PowerSpread float64              `json:"power_spread"`
	Groups      []groupReport        `json:"groups"`
}

func runBalance(out io.Writer, opts *balanceOptions) error {
	roster, err := loadRoster(opts.roster)
	if err != nil {
		return err
	}
	weights, err := parseWeights(opts.weights)
	if err != nil {
		return err
	}
	if weights == nil {
		w := balance.DefaultWeights()
		weights = &w
	}

	a, err := balance.Balance(roster, opts.groups, weights)
	if err != nil {
		return err
	}

	byID := make(map[int64]balance.Student, len(roster))
	for _, s := range roster {
		byID[s.ID] = s
	}
	analyzer := scoring.NewAnalyzer(opts.threshold)
	report := balanceReport{
		GroupCount:  opts.groups,
		Weights:     *weights,
		PowerSpread: a.PowerSpread(),
		Groups:      make([]groupReport, len(a.Groups)),
	}
	for i, g := range a.Groups {
		members := make([]balance.Student, len(g.Members))
		for j, id := range g.Members {
			members[j] = byID[id]
		}
		report.Groups[i] = groupReport{Group: g, Students: members, Insight: analyzer.Analyze(members)}
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeText(out, report)
}

func writeText(out io.Writer, r balanceReport) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, g := range r.Groups {
		fmt.Fprintf(tw, "%s\t%d members\tpower %.1f\tC/D/W/P %d/%d/%d/%d\n",
			g.Name, g.MemberCount, g.TotalPower,
			g.SkillSums[0], g.SkillSums[1], g.SkillSums[2], g.SkillSums[3])
		for _, s := range g.Students {
			fmt.Fprintf(tw, "  %d\t%s\t%d/%d/%d/%d\n", s.ID, s.Name, s.Coding, s.Design, s.Writing, s.Presenting)
		}
		if g.Insight.Weakness != "" {
			fmt.Fprintf(tw, "  weakness\t%s\n", g.Insight.Weakness)
		}
		if g.Insight.Unbalanced {
			fmt.Fprintf(tw, "  unbalanced\tstd dev %.2f\t%s\n", g.Insight.Compatibility, g.Insight.Suggestion)
		}
	}
	fmt.Fprintf(tw, "power spread\t%.1f\n", r.PowerSpread)
	return tw.Flush()
}
