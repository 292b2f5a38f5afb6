package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/graphrank/pkg/render/nodelink"
	"github.com/matzehuels/graphrank/pkg/shortestpath"
)

// Report is the JSON form of an Evaluation. Unreached vertices have a nil
// distance.
type Report struct {
	N        int       `json:"n"`
	Source   int       `json:"source"`
	Fitness  uint64    `json:"fitness"`
	Reached  int       `json:"reached"`
	Distance []*uint64 `json:"distance"`
	Pred     []int     `json:"pred,omitempty"`
}

// NewReport builds the JSON report for ev.
func NewReport(ev *Evaluation) Report {
	res := ev.Result
	rep := Report{
		N:        ev.Matrix.N(),
		Source:   res.Source,
		Fitness:  res.Fitness,
		Reached:  res.Reached,
		Distance: make([]*uint64, len(res.Dist)),
		Pred:     res.Pred,
	}
	for v, d := range res.Dist {
		if d != shortestpath.Sentinel {
			rep.Distance[v] = &d
		}
	}
	return rep
}

// Render produces a machine-readable artifact for ev. The text format is
// presentation and lives in the CLI.
func Render(ctx context.Context, ev *Evaluation, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(toDOT(ev, opts)), nil
	case FormatSVG:
		data, err := nodelink.RenderSVG(ctx, toDOT(ev, opts))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(NewReport(ev), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported render format: %s", format)
	}
}

func toDOT(ev *Evaluation, opts Options) string {
	return nodelink.ToDOT(ev.Matrix, ev.Result, nodelink.Options{
		Detailed: opts.Detailed,
		TreeOnly: opts.TreeOnly,
	})
}
