package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/review"
	"github.com/abhisek/placeprep/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Vet generated questions (admin)",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()
		if _, err := d.requireAdmin(); err != nil {
			return err
		}

		items, err := d.store.PendingRepo().List(cmd.Context(), status)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "Nothing to review.")
			return nil
		}
		for _, it := range items {
			fmt.Fprintf(out, "%-14s  %-9s  %-16s  %s\n", it.ID, it.Status, truncate(it.Topic, 16), truncate(it.Question.Prompt, 60))
			for j, opt := range it.Question.Options {
				mark := " "
				if j == it.Question.CorrectIndex {
					mark = "*"
				}
				fmt.Fprintf(out, "%16s %s %c) %s\n", "", mark, 'A'+j, opt)
			}
		}
		return nil
	},
}

func decisionCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDeps(cmd)
			if err != nil {
				return err
			}
			defer d.close()
			sess, err := d.requireAdmin()
			if err != nil {
				return err
			}

			q, err := review.Load(cmd.Context(), d.store.PendingRepo(), sess.Name)
			if err != nil {
				return err
			}
			var failed []string
			for _, id := range args {
				var err error
				if status == store.StatusVerified {
					err = q.Verify(cmd.Context(), id)
				} else {
					err = q.Reject(cmd.Context(), id)
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
					failed = append(failed, id)
					continue
				}
				d.logger.Info("review decision", "id", id, "status", status, "reviewer", sess.Name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, status)
			}
			if len(failed) > 0 {
				return fmt.Errorf("could not update %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
}

func init() {
	reviewListCmd.Flags().String("status", store.StatusPending, "Filter by status (pending, verified, rejected; empty for all)")

	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(decisionCmd("verify", "Accept questions into the community sets", store.StatusVerified))
	reviewCmd.AddCommand(decisionCmd("reject", "Discard questions", store.StatusRejected))
}
