// Package sink turns a [scene.Snapshot] into files.
//
// Four outputs are available:
//
//   - [RenderSVG] draws frames, labels and images at their page coordinates
//   - [RenderJSON] dumps nodes, assets and the viewport
//   - [ToDOT] describes the parent/child tree in Graphviz DOT
//   - [RenderNodelinkSVG] lays that tree out with Graphviz
//
// All renderers are pure: the same snapshot always yields the same bytes.
package sink
