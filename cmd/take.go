package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/progress"
	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/quiz"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/session"
)

var takeCmd = &cobra.Command{
	Use:   "take <set>",
	Short: "Take a quiz in the terminal, one answer per line",
	Long: "Answer each question with its letter or number. Type p to go back, " +
		"s to submit, or q to stop and submit what you have. End of input submits early.",
	Args: cobra.ExactArgs(1),
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
		set, ok := d.bank.Set(args[0])
		if !ok {
			return fmt.Errorf("unknown question set %q (see `placeprep bank list`)", args[0])
		}

		svc := d.progressService()
		st := d.standings(cmd.Context(), svc, sess)
		if m, ok := d.roadmap.ForSet(set.ID); ok && !d.roadmap.Unlocked(m.ID, st) {
			return fmt.Errorf("%s is locked: pass %s first", m.Title, strings.Join(m.Prerequisites, ", "))
		}

		t := &lineQuiz{
			in:      bufio.NewScanner(cmd.InOrStdin()),
			out:     cmd.OutOrStdout(),
			engine:  d.engine,
			attempt: quiz.New(set.ID, set.Questions),
		}
		res, err := t.run()
		if err != nil {
			return err
		}
		return reportResult(cmd.Context(), t.out, svc, d.roadmap, sess, set, t.attempt, st, res)
	},
}

// lineQuiz drives an attempt from text input.
type lineQuiz struct {
	in      *bufio.Scanner
	out     io.Writer
	engine  *assessment.Engine
	attempt *quiz.Attempt
}

func (t *lineQuiz) run() (assessment.Result, error) {
	a := t.attempt
	total := len(a.Questions)
	if total == 0 {
		return a.SubmitEarly(t.engine)
	}

	for {
		t.printQuestion()
		if !t.in.Scan() {
			if err := t.in.Err(); err != nil {
				return assessment.Result{}, fmt.Errorf("read answer: %w", err)
			}
			fmt.Fprintln(t.out, "\nInput ended; submitting your answers so far.")
			return a.SubmitEarly(t.engine)
		}

		switch line := strings.ToLower(strings.TrimSpace(t.in.Text())); line {
		case "":
			continue
		case "q":
			return a.SubmitEarly(t.engine)
		case "p":
			if !a.Prev() {
				fmt.Fprintln(t.out, "Already at the first question.")
			}
		case "n":
			if !a.Next() {
				fmt.Fprintln(t.out, "Already at the last question.")
			}
		case "s":
			if a.CanSubmit() {
				return a.Submit(t.engine)
			}
			fmt.Fprintf(t.out, "Answer every question before submitting (%d of %d answered).\n", a.AnsweredCount(), total)
		default:
			opt, ok := parseOption(line)
			if !ok || a.Select(opt) != nil {
				fmt.Fprintf(t.out, "Enter A-%c or 1-%d.\n", 'A'+len(a.Current().Options)-1, len(a.Current().Options))
				continue
			}
			if a.Next() {
				continue
			}
			if a.CanSubmit() {
				return a.Submit(t.engine)
			}
			// Last question answered with gaps earlier: jump to the first gap.
			for i := range total {
				if _, ok := a.Selected(i); !ok {
					_ = a.Jump(i)
					break
				}
			}
		}
	}
}

func (t *lineQuiz) printQuestion() {
	a := t.attempt
	q := a.Current()
	fmt.Fprintf(t.out, "\nQuestion %d of %d (%d answered)\n%s\n", a.Cursor()+1, len(a.Questions), a.AnsweredCount(), q.Prompt)
	chosen, answered := a.Selected(a.Cursor())
	for i, opt := range q.Options {
		mark := " "
		if answered && i == chosen {
			mark = "●"
		}
		fmt.Fprintf(t.out, "  %s %c) %s\n", mark, 'A'+i, opt)
	}
	fmt.Fprint(t.out, "> ")
}

// parseOption accepts a letter (a, b, ...) or a 1-based number.
func parseOption(s string) (int, bool) {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return int(s[0] - 'a'), true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// reportResult records res and prints the score, the unlock decision and
// the answer key. A failed save is reported but does not hide the result.
func reportResult(ctx context.Context, out io.Writer, svc *progress.Service, rm *roadmap.Roadmap,
	sess session.Session, set questionbank.Set, a *quiz.Attempt, before roadmap.Standings, res assessment.Result) error {

	fmt.Fprintf(out, "\n%s: %d of %d correct, %d%% (pass mark %d%%)\n",
		set.Title, res.CorrectCount, res.TotalCount, res.ScorePercent, res.Threshold)

	decision := progress.Decide(rm, set.ID, before, res)
	fmt.Fprintln(out, decision.Message)
	if decision.Unlock && decision.NextContentID != "" {
		if m, ok := rm.Module(decision.NextContentID); ok {
			fmt.Fprintf(out, "Unlocked: %s (placeprep take %s)\n", m.Title, m.SetID)
		}
	}

	for i, q := range a.Questions {
		chosen, ok := a.Selected(i)
		verdict := "✗"
		if ok && chosen == q.CorrectIndex {
			verdict = "✓"
		}
		fmt.Fprintf(out, "\n%s %d. %s\n   answer: %c) %s\n", verdict, i+1, q.Prompt, 'A'+q.CorrectIndex, q.Options[q.CorrectIndex])
		if q.Explanation != "" {
			fmt.Fprintf(out, "   %s\n", q.Explanation)
		}
	}

	if err := svc.Record(ctx, sess, a.ID, set.ID, res); err != nil {
		fmt.Fprintf(out, "\nCouldn't save your result: %v\n", err)
	}
	return nil
}
