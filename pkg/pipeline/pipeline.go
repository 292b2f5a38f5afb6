// Package pipeline connects the protocol decoder, the ranking session and
// the renderers.
//
// It is the single place where a byte stream turns into submissions, so the
// CLI `run` and `inspect` commands and any embedding program behave the same.
//
// # Usage
//
// Run a protocol stream:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Run(ctx, os.Stdin, os.Stdout, pipeline.Options{
//	    Strategy: "heap",
//	})
//	if err != nil {
//	    return err
//	}
//	logger.Info("done", "submissions", result.Stats.Submissions)
//
// Evaluate and draw one matrix:
//
//	m, err := pipeline.LoadMatrix("graph.txt")
//	ev, err := runner.Evaluate(ctx, m, pipeline.Options{})
//	svg, err := pipeline.Render(ctx, ev, pipeline.FormatSVG, pipeline.Options{Detailed: true})
package pipeline

import (
	"time"

	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/ranking"
	"github.com/matzehuels/graphrank/pkg/session"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultStrategy is the ranking strategy used when none is configured.
const DefaultStrategy = ranking.StrategyHeap

// DefaultCacheTTL is the lifetime of cached fitness values.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Format constants for evaluation output.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Formats lists the supported evaluation output formats.
var Formats = []string{FormatText, FormatDOT, FormatSVG, FormatJSON}

// =============================================================================
// Options
// =============================================================================

// Options configures a run or an evaluation.
type Options struct {
	// Strategy selects the ranking store ("heap" or "list").
	Strategy string `json:"strategy,omitempty"`
	// Source is the vertex distances are measured from.
	Source int `json:"source,omitempty"`
	// CacheTTL is the lifetime of cached fitness values.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// Detailed adds distances to rendered node labels.
	Detailed bool `json:"detailed,omitempty"`
	// TreeOnly drops non-tree edges from rendered diagrams.
	TreeOnly bool `json:"tree_only,omitempty"`

	// OnSubmission is called after every accepted graph.
	OnSubmission func(session.Submission) `json:"-"`
}

// ValidateAndSetDefaults fills unset fields and checks the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if err := apperrors.ValidateStrategy(o.Strategy, ranking.Strategies); err != nil {
		return err
	}
	if o.Source < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "source vertex cannot be negative, got %d", o.Source)
	}
	if o.CacheTTL < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache ttl cannot be negative, got %s", o.CacheTTL)
	}
	return nil
}

// ValidateFormat checks an evaluation output format.
func ValidateFormat(format string) error {
	return apperrors.ValidateFormat(format, Formats)
}

// =============================================================================
// Results
// =============================================================================

// Result summarizes a completed stream run.
type Result struct {
	SessionID string
	N         int
	K         int
	Strategy  string
	Stats     session.Stats
	TopK      []uint64        // ranking at end of stream
	Entries   []ranking.Entry // retained entries with fitness
	Unknown   int             // skipped command words
	Duration  time.Duration
}
