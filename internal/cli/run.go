package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphrank/internal/config"
	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/ranking"
)

// runCommand creates the run command, which drives the ranking protocol.
func (c *CLI) runCommand() *cobra.Command {
	var (
		input    string
		strategy string
		source   int
		useCache bool
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rank a stream of graphs read from stdin or a file",
		Long: `Run reads a header "n,K" followed by AggiungiGrafo (or AddGraph) and TopK
commands. Each TopK writes the indices of the K best graphs so far to stdout,
space separated, in ascending order. Logs go to stderr.`,
		Example: `  printf '3,2\nAggiungiGrafo\n0,2,0\n0,0,0\n0,0,0\nTopK\n' | graphrank run
  graphrank run --input graphs.txt --strategy list --cache
  graphrank run --cache --cache-backend memory < graphs.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			var in io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					if os.IsNotExist(err) {
						return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", input)
					}
					return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", input)
				}
				defer f.Close()
				in = f
			}

			runner, err := c.newRunner(c.cacheEnabled(cmd, useCache), c.cacheBackend(cmd, backend, config.CacheBackendFile))
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			prog := newProgress(logger)
			res, err := runner.Run(ctx, in, cmd.OutOrStdout(), c.pipelineOptions(cmd, strategy, source))
			if err != nil {
				return err
			}

			prog.done("stream complete",
				"graphs", res.Stats.Submissions,
				"retained", len(res.TopK),
				"queries", res.Stats.Queries,
				"cache_hits", res.Stats.CacheHits,
				"strategy", res.Strategy)
			if res.Unknown > 0 {
				logger.Warn("skipped unknown commands", "count", res.Unknown)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read the stream from a file instead of stdin")
	cmd.Flags().StringVar(&strategy, "strategy", ranking.StrategyHeap, "ranking strategy: heap or list")
	cmd.Flags().IntVar(&source, "source", 0, "vertex distances are measured from")
	cmd.Flags().BoolVar(&useCache, "cache", false, "memoize fitness values")
	cmd.Flags().StringVar(&backend, "cache-backend", config.CacheBackendFile, "cache backend: file or memory")

	return cmd
}
