package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphrank/internal/config"
	"github.com/matzehuels/graphrank/pkg/ranking"
	"github.com/matzehuels/graphrank/pkg/session"
)

// inspectCommand creates the inspect command: run a whole stream, then
// browse every submission and whether it made the final ranking.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		strategy string
		source   int
		noTUI    bool
		useCache bool
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Browse every graph of a stream and its ranking outcome",
		Long: `Inspect evaluates a complete stream file, then shows one row per graph with
its fitness, what happened when it arrived, and whether it is in the final
top K. TopK commands in the file are evaluated but their output is dropped.
With --cache, repeated graphs are answered from an in-memory cache and marked
"cached".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			runner, err := c.newRunner(c.cacheEnabled(cmd, useCache), c.cacheBackend(cmd, backend, config.CacheBackendMemory))
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			var subs []session.Submission
			spinner := newSpinnerWithContext(ctx, "Evaluating graphs...")
			if !noTUI {
				spinner.Start()
			}

			opts := c.pipelineOptions(cmd, strategy, source)
			opts.OnSubmission = func(s session.Submission) {
				subs = append(subs, s)
				if len(subs)%100 == 0 {
					spinner.Update(fmt.Sprintf("Evaluated %d graphs...", len(subs)))
				}
			}
			res, err := runner.Run(ctx, f, io.Discard, opts)
			if err != nil {
				if !noTUI {
					spinner.StopWithError("Evaluation failed")
				}
				return err
			}
			spinner.Stop()

			rows := newSubmissionRows(subs, res.TopK)
			if noTUI {
				fmt.Fprintln(cmd.OutOrStdout(), submissionTable(rows, -1).Render())
				printDetail("%d graphs, %d retained (K=%d, %s)", len(rows), len(res.TopK), res.K, res.Strategy)
				return nil
			}

			model := NewSubmissionListModel(rows, res.K)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", ranking.StrategyHeap, "ranking strategy: heap or list")
	cmd.Flags().IntVar(&source, "source", 0, "vertex distances are measured from")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "print a table instead of the interactive view")
	cmd.Flags().BoolVar(&useCache, "cache", false, "memoize fitness values so repeated graphs skip evaluation")
	cmd.Flags().StringVar(&backend, "cache-backend", config.CacheBackendMemory, "cache backend: memory or file")

	return cmd
}
