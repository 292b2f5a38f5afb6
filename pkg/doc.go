// Package pkg holds the graphrank libraries.
//
// # Overview
//
// Graphrank reads a stream of weighted directed graphs, scores each by the sum
// of its shortest-path distances from a source vertex, and keeps the K graphs
// with the smallest scores. The libraries stack bottom-up:
//
//	[graph]         dense n×n weight matrix
//	     ↓
//	[pqueue]        indexable min-heap with decrease-key
//	     ↓
//	[shortestpath]  Dijkstra engine, fitness = Σ finite distances
//	     ↓
//	[ranking]       bounded top-K store (heap or sorted list)
//	     ↓
//	[session]       one run: numbering, evaluation, caching, ranking
//	     ↓
//	[pipeline]      the text protocol loop shared by every command
//
// [stream] decodes and encodes the text protocol, [cache] memoizes fitness
// values by matrix hash, [render/nodelink] draws a shortest-path tree, and
// [observability] exposes hooks the CLI uses for debug logging.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Run(ctx, os.Stdin, os.Stdout, pipeline.Options{})
//
// Or drive a session directly:
//
//	s, _ := session.New(session.Config{N: 3, K: 2})
//	m := s.Matrix()
//	m.Set(0, 1, 2)
//	s.AddGraph(ctx, m)
//	top := s.TopK(ctx) // [0]
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/graph
// [pqueue]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/pqueue
// [shortestpath]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/shortestpath
// [ranking]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/ranking
// [session]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/pipeline
// [stream]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/stream
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/cache
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphrank/pkg/observability
package pkg
