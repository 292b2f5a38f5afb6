package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphrank/pkg/pipeline"
	"github.com/matzehuels/graphrank/pkg/shortestpath"
)

// evalCommand creates the eval command for scoring a single matrix.
func (c *CLI) evalCommand() *cobra.Command {
	var (
		format   string
		output   string
		source   int
		detailed bool
		treeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Compute the fitness and shortest-path tree of one graph",
		Long: `Eval reads one matrix (a vertex count followed by n rows, or a JSON
document with a .json extension) and reports its fitness and per-vertex
distances, or renders the shortest-path tree as DOT or SVG.`,
		Example: `  graphrank eval graph.txt
  graphrank eval graph.txt --format svg -o tree.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}

			m, err := pipeline.LoadMatrix(args[0])
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cmd, "", source)
			opts.Detailed = detailed
			opts.TreeOnly = treeOnly

			runner, err := c.newRunner(false, "")
			if err != nil {
				return err
			}
			ev, err := runner.Evaluate(ctx, m, opts)
			if err != nil {
				return err
			}

			if format == pipeline.FormatText {
				printEvaluation(ev)
				return nil
			}

			toFile := output != "" && output != "-"
			var spinner *Spinner
			if format == pipeline.FormatSVG {
				spinner = newSpinnerWithContext(ctx, "Rendering SVG...")
				spinner.Start()
			}
			data, err := pipeline.Render(ctx, ev, format, opts)
			if err != nil {
				if spinner != nil {
					spinner.StopWithError("Rendering failed")
				}
				return err
			}

			if !toFile {
				if spinner != nil {
					spinner.Stop()
				}
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				if spinner != nil {
					spinner.StopWithError("Write failed")
				}
				return fmt.Errorf("write %s: %w", output, err)
			}
			done := "Rendered " + strings.ToUpper(format)
			if spinner != nil {
				spinner.StopWithSuccess(done)
			} else {
				printSuccess("%s", done)
			}
			printFile(output)
			if format == pipeline.FormatDOT {
				printNextStep("Render with Graphviz", "dot -Tpng "+output+" -o tree.png")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "output format: text, dot, svg or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&source, "source", 0, "vertex distances are measured from")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show distances in node labels")
	cmd.Flags().BoolVar(&treeOnly, "tree-only", false, "draw only shortest-path tree edges")

	return cmd
}

// printEvaluation prints the fitness summary and a distance table.
func printEvaluation(ev *pipeline.Evaluation) {
	res := ev.Result
	printKeyValue("fitness", StyleNumber.Render(strconv.FormatUint(res.Fitness, 10)))
	printKeyValue("source", strconv.Itoa(res.Source))
	printEvalStats(ev.Matrix.N(), ev.Matrix.EdgeCount(), res.Reached)
	printNewline()
	fmt.Println(distanceTable(res).Render())
}

// distanceTable lays out per-vertex distances and paths.
func distanceTable(res shortestpath.Result) *table.Table {
	rows := make([][]string, len(res.Dist))
	for v, d := range res.Dist {
		dist, path := "∞", "—"
		if d != shortestpath.Sentinel {
			dist = strconv.FormatUint(d, 10)
			path = formatPath(res.Path(v))
		}
		rows[v] = []string{strconv.Itoa(v), dist, path}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Vertex", "Distance", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if rows[row][1] == "∞" {
				return cell.Foreground(colorDim)
			}
			if col == 1 {
				return cell.Foreground(colorCyan)
			}
			return cell
		})
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}
