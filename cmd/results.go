package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/roadmap"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show your recent attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		sess, err := d.requireSession()
		if err != nil {
			return err
		}
		recs, err := d.progressService().History(cmd.Context(), sess, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No attempts yet. Try `placeprep take javascript`.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-24s  %7s  %6s  %s\n", "Time", "Set", "Correct", "Score", "Passed")
		fmt.Fprintln(out, strings.Repeat("─", 68))
		for _, r := range recs {
			passed := "✗"
			if r.Result.Passed {
				passed = "✓"
			}
			fmt.Fprintf(out, "%-16s  %-24s  %3d/%-3d  %5d%%  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"), truncate(r.ContextID, 24),
				r.Result.CorrectCount, r.Result.TotalCount, r.Result.ScorePercent, passed)
		}
		return nil
	},
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Show module states on your roadmap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		sess, err := d.requireSession()
		if err != nil {
			return err
		}
		st := d.standings(cmd.Context(), d.progressService(), sess)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-24s  %-10s  %5s  %8s  %s\n", "Module", "Title", "State", "Best", "Attempts", "After")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, ms := range d.roadmap.States(st) {
			best := "-"
			if ms.Standing.Attempts > 0 {
				best = fmt.Sprintf("%d%%", ms.Standing.BestScore)
			}
			fmt.Fprintf(out, "%-20s  %-24s  %-10s  %5s  %8d  %s\n",
				ms.Module.ID, truncate(ms.Module.Title, 24), stateLabel(ms.State), best,
				ms.Standing.Attempts, strings.Join(ms.Module.Prerequisites, ", "))
		}
		return nil
	},
}

func stateLabel(s roadmap.State) string {
	switch s {
	case roadmap.StatePassed:
		return "✓ passed"
	case roadmap.StateLocked:
		return "locked"
	default:
		return s.String()
	}
}

func init() {
	resultsCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
}
