package cli

import (
	"math"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/stream"
)

// genCommand creates the gen command, which writes a random input stream.
func (c *CLI) genCommand() *cobra.Command {
	opts := stream.DefaultGenerateOptions()
	var (
		output    string
		maxWeight uint
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random graph stream",
		Long: `Gen writes a reproducible random stream in the format run reads. The same
seed and flags always produce the same stream.`,
		Example: `  graphrank gen -n 50 -k 10 --graphs 1000 --seed 7 | graphrank run
  graphrank gen --density 0.1 --query-every 100 -o bench.txt`,
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			skipConfigAnnotation: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.MaxWeight = uint32(min(uint64(maxWeight), math.MaxUint32))

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "create %s", output)
				}
				defer f.Close()
				w = f
			}
			if err := stream.Generate(w, opts); err != nil {
				return err
			}

			loggerFromContext(cmd.Context()).Debug("stream generated",
				"n", opts.N, "k", opts.K, "graphs", opts.Graphs, "seed", opts.Seed)
			if output != "" && output != "-" {
				printSuccess("Wrote %s", output)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.N, "vertices", "n", opts.N, "vertices per graph")
	cmd.Flags().IntVarP(&opts.K, "top", "k", opts.K, "ranking capacity written to the header")
	cmd.Flags().IntVar(&opts.Graphs, "graphs", opts.Graphs, "number of graphs")
	cmd.Flags().Float64Var(&opts.Density, "density", opts.Density, "probability of each edge, 0 to 1")
	cmd.Flags().UintVar(&maxWeight, "max-weight", uint(opts.MaxWeight), "largest edge weight")
	cmd.Flags().IntVar(&opts.QueryEvery, "query-every", 0, "emit TopK after every N graphs (0: only at the end)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}
