package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphrank/pkg/cache"
	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/graph"
	"github.com/matzehuels/graphrank/pkg/session"
)

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

const scenario = `3,2
AggiungiGrafo
0,2,0
0,0,0
0,0,0
AggiungiGrafo
0,3,7
0,0,0
0,0,0
TopK
AggiungiGrafo
0,0,1
0,0,0
0,0,0
TopK
`

func TestRunScenario(t *testing.T) {
	for _, strategy := range []string{"heap", "list"} {
		t.Run(strategy, func(t *testing.T) {
			var out bytes.Buffer
			res, err := quietRunner(nil).Run(context.Background(), strings.NewReader(scenario), &out, Options{Strategy: strategy})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got, want := out.String(), "0 1\n0 2\n"; got != want {
				t.Errorf("output = %q, want %q", got, want)
			}
			if res.Stats.Submissions != 3 || res.N != 3 || res.K != 2 {
				t.Errorf("unexpected result: %+v", res)
			}
			if res.Strategy != strategy {
				t.Errorf("Strategy = %s, want %s", res.Strategy, strategy)
			}
		})
	}
}

func TestRunEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"topk before any graph", "2 3\nTopK\n", "\n"},
		{"zero k", "1 0\nAddGraph\n0\nTopK\n", "\n"},
		{"unknown commands skipped", "1 1\nHello\nAddGraph 0 World TopK\n", "0\n"},
		{"header only", "4 4", ""},
		{"unreachable vertex", "4 1\nAddGraph\n0 1 0 0\n0 0 1 0\n0 0 0 0\n0 0 0 0\nTopK", "0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if _, err := quietRunner(nil).Run(context.Background(), strings.NewReader(tt.input), &out, Options{}); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunCountsUnknown(t *testing.T) {
	res, err := quietRunner(nil).Run(context.Background(), strings.NewReader("1 1\nfoo bar TopK"), io.Discard, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Unknown != 2 {
		t.Errorf("Unknown = %d, want 2", res.Unknown)
	}
}

func TestRunSkipsOversizedUnknownWord(t *testing.T) {
	in := "2 1\nAddGraph 0 5 0 0\n" + strings.Repeat("z", 20000) + "\nTopK\n"
	var out bytes.Buffer
	res, err := quietRunner(nil).Run(context.Background(), strings.NewReader(in), &out, Options{})
	if err != nil {
		t.Fatalf("an oversized unknown word should be skipped, got %v", err)
	}
	if res.Unknown != 1 {
		t.Errorf("Unknown = %d, want 1", res.Unknown)
	}
	if out.String() != "0\n" {
		t.Errorf("output = %q, want %q", out.String(), "0\n")
	}
}

func TestRunFatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  apperrors.Code
		want  string
	}{
		{"bad header", "x 2\n", apperrors.ErrCodeInvalidHeader, ""},
		{"empty", "", apperrors.ErrCodeTruncated, ""},
		{"truncated matrix", "2 1\nTopK\nAddGraph\n0 1\n0", apperrors.ErrCodeTruncated, "\n"},
		{"negative weight", "2 1\nAddGraph\n0 -1\n0 0\n", apperrors.ErrCodeInvalidMatrix, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := quietRunner(nil).Run(context.Background(), strings.NewReader(tt.input), &out, Options{})
			if !apperrors.Is(err, tt.code) {
				t.Fatalf("Run() error = %v, want code %s", err, tt.code)
			}
			if out.String() != tt.want {
				t.Errorf("output before error = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quietRunner(nil).Run(ctx, strings.NewReader("1 1\nTopK\n"), io.Discard, Options{})
	if err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunOnSubmission(t *testing.T) {
	var subs []session.Submission
	opts := Options{OnSubmission: func(s session.Submission) { subs = append(subs, s) }}
	if _, err := quietRunner(nil).Run(context.Background(), strings.NewReader(scenario), io.Discard, opts); err != nil {
		t.Fatal(err)
	}
	if len(subs) != 3 {
		t.Fatalf("got %d submissions, want 3", len(subs))
	}
	for i, want := range []uint64{2, 10, 1} {
		if subs[i].Fitness != want {
			t.Errorf("submission %d fitness = %d, want %d", i, subs[i].Fitness, want)
		}
	}
}

func TestRunWithCache(t *testing.T) {
	c := cache.NewMemoryCache(8)
	input := "2 2\nAddGraph 0 5 0 0\nAddGraph 0 5 0 0\nTopK\n"
	res, err := quietRunner(c).Run(context.Background(), strings.NewReader(input), io.Discard, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.CacheHits != 1 || res.Stats.Evaluated != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 evaluation", res.Stats)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Strategy != DefaultStrategy {
		t.Errorf("Strategy = %q, want %q", o.Strategy, DefaultStrategy)
	}

	bad := []Options{{Strategy: "tree"}, {Source: -1}, {CacheTTL: -1}}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("%+v should fail validation", o)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"dot", false},
		{"svg", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestEvaluateAndRender(t *testing.T) {
	m, err := ReadMatrix(strings.NewReader("3\n0,4,1\n0,0,0\n0,1,0\n"))
	if err != nil {
		t.Fatal(err)
	}
	ev, err := quietRunner(nil).Evaluate(context.Background(), m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Result.Fitness != 3 {
		t.Errorf("fitness = %d, want 3", ev.Result.Fitness)
	}

	data, err := Render(context.Background(), ev, FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Fitness != 3 || *rep.Distance[1] != 2 || rep.Pred[1] != 2 {
		t.Errorf("unexpected report: %s", data)
	}

	dot, err := Render(context.Background(), ev, FormatDOT, Options{TreeOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(dot), "0 -> 1") {
		t.Errorf("tree-only DOT should not contain 0 -> 1:\n%s", dot)
	}

	if _, err := Render(context.Background(), ev, FormatText, Options{}); err == nil {
		t.Error("text is rendered by the CLI, Render should reject it")
	}
}

func TestReportUnreached(t *testing.T) {
	m, _ := graph.FromRows([][]uint32{{0, 0}, {1, 0}})
	ev, err := quietRunner(nil).Evaluate(context.Background(), m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	rep := NewReport(ev)
	if rep.Distance[1] != nil {
		t.Errorf("unreached vertex should have nil distance, got %d", *rep.Distance[1])
	}
	if rep.Fitness != 0 || rep.Reached != 1 {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestLoadMatrix(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "g.txt")
	if err := os.WriteFile(txt, []byte("2\n0 3\n0 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadMatrix(txt)
	if err != nil {
		t.Fatalf("LoadMatrix(txt): %v", err)
	}
	if m.At(0, 1) != 3 {
		t.Errorf("At(0,1) = %d, want 3", m.At(0, 1))
	}

	js := filepath.Join(dir, "g.json")
	if err := graph.WriteMatrixFile(m, js); err != nil {
		t.Fatal(err)
	}
	m2, err := LoadMatrix(js)
	if err != nil {
		t.Fatalf("LoadMatrix(json): %v", err)
	}
	if !m.Equal(m2) {
		t.Error("json round trip changed the matrix")
	}

	if _, err := LoadMatrix(filepath.Join(dir, "missing.txt")); !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}
