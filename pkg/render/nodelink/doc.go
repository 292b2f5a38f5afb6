// Package nodelink draws a weighted matrix and its shortest-path tree as a
// node-link diagram.
//
// # Usage
//
// Evaluate with predecessor tracking, then convert to DOT and render:
//
//	engine, _ := shortestpath.New(m.N(), shortestpath.WithTree())
//	engine.Evaluate(m)
//	dot := nodelink.ToDOT(m, engine.Result(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Tree edges are bold blue, other edges grey, and unreachable vertices are
// dashed. Each edge is labelled with its weight.
//
// # DOT Format
//
// [ToDOT] output is plain Graphviz source and can be piped to `dot` or any
// other Graphviz tool. [RenderSVG] runs the bundled Graphviz (WebAssembly
// build via go-graphviz), so no system installation is needed.
package nodelink
