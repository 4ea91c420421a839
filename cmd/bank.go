package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/llm"
	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/store"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and extend the question bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List question sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Question bank %s\n\n", d.bank.Version)
		fmt.Fprintf(out, "%-24s  %-32s  %9s  %s\n", "ID", "Title", "Questions", "Module")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, s := range d.bank.Sets() {
			module := "-"
			if m, ok := d.roadmap.ForSet(s.ID); ok {
				module = m.ID
			}
			fmt.Fprintf(out, "%-24s  %-32s  %9d  %s\n", s.ID, truncate(s.Title, 32), len(s.Questions), module)
		}
		return nil
	},
}

var bankShowCmd = &cobra.Command{
	Use:   "show <set>",
	Short: "Show a set's questions and answer key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		set, ok := d.bank.Set(args[0])
		if !ok {
			return fmt.Errorf("unknown question set %q (see `placeprep bank list`)", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s — %s\n", set.ID, set.Title)
		if set.Description != "" {
			fmt.Fprintln(out, set.Description)
		}
		for i, q := range set.Questions {
			fmt.Fprintf(out, "\n%d. %s\n", i+1, q.Prompt)
			for j, opt := range q.Options {
				mark := " "
				if j == q.CorrectIndex {
					mark = "*"
				}
				fmt.Fprintf(out, "   %s %c) %s\n", mark, 'A'+j, opt)
			}
			if q.Explanation != "" {
				fmt.Fprintf(out, "   %s\n", q.Explanation)
			}
		}
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a question bank YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := questionbank.LoadFile(args[0])
		var verr *questionbank.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d problem(s)\n", args[0], len(verr.Problems))
			for _, p := range verr.Problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", p)
			}
			return fmt.Errorf("validation failed")
		}
		if err != nil {
			return err
		}
		total := 0
		for _, s := range b.Sets() {
			total += len(s.Questions)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (version %s, %d sets, %d questions)\n",
			args[0], b.Version, b.Len(), total)
		return nil
	},
}

var bankExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective bank as YAML to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()
		return questionbank.Export(cmd.OutOrStdout(), d.bank)
	},
}

var bankGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions with the LLM and queue them for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, d.store.EventRepo(), d.logger)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		topic = questionbank.Slug(topic)
		prior, err := priorPrompts(cmd, d, topic)
		if err != nil {
			return err
		}

		gen := questionbank.NewGenerator(provider, questionbank.DefaultGeneratorConfig())
		batch, err := gen.Generate(ctx, questionbank.GenerateInput{
			Topic:        topic,
			Difficulty:   difficulty,
			Count:        count,
			PriorPrompts: prior,
		})
		out := cmd.OutOrStdout()
		if batch != nil {
			for _, rej := range batch.Rejected {
				fmt.Fprintf(out, "rejected: %s (%s)\n", truncate(rej.Prompt, 60), rej.Error())
			}
		}
		if err != nil {
			return err
		}

		added, err := d.store.PendingRepo().Add(ctx, topic, batch.Questions)
		if err != nil {
			return err
		}
		d.logger.Info("generated questions queued", "topic", topic, "count", len(added), "rejected", len(batch.Rejected))
		fmt.Fprintf(out, "Queued %d question(s) on %q for review. Run `placeprep review list`.\n", len(added), topic)
		return nil
	},
}

// priorPrompts collects prompts already known for topic, in the bank or
// the review queue, so the generator avoids repeating them.
func priorPrompts(cmd *cobra.Command, d *deps, topic string) ([]string, error) {
	var out []string
	for _, id := range []string{topic, questionbank.CommunitySetID(topic)} {
		if s, ok := d.bank.Set(id); ok {
			for _, q := range s.Questions {
				out = append(out, q.Prompt)
			}
		}
	}
	queued, err := d.store.PendingRepo().List(cmd.Context(), store.StatusPending)
	if err != nil {
		return nil, err
	}
	for _, p := range queued {
		if p.Topic == topic {
			out = append(out, p.Question.Prompt)
		}
	}
	return out, nil
}

func init() {
	bankGenerateCmd.Flags().String("topic", "", "Topic to generate questions on, e.g. aptitude")
	bankGenerateCmd.Flags().Int("count", 5, fmt.Sprintf("Number of questions (1-%d)", questionbank.MaxGenerateCount))
	bankGenerateCmd.Flags().String("difficulty", "medium", "easy, medium or hard")
	_ = bankGenerateCmd.MarkFlagRequired("topic")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankShowCmd)
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankExportCmd)
	bankCmd.AddCommand(bankGenerateCmd)
}

