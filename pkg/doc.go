// Package pkg holds the datacanvas libraries.
//
// # Overview
//
// Datacanvas draws structured records as nested frames on a canvas. A record
// is any JSON-like tree; objects and arrays become titled frames, their
// entries become key/value labels, and image references become image shapes.
//
// # Data Flow
//
//	JSON / JSONL / YAML / TOML / MongoDB
//	         ↓
//	    [source] (decode records, keep key order)
//	         ↓
//	    [pipeline] (grid placement, caching)
//	         ↓
//	    [layout] (recursive traversal into a scene)
//	         ↓
//	    [scene] (in-memory scene graph)
//	         ↓
//	    [render/sink] (SVG, JSON dump, DOT, Graphviz node-link SVG)
//
// # Packages
//
// [value] - The ordered value tree and its classification helpers.
//
// [layout] - The traversal engine. It knows every size and offset and talks
// to the canvas only through the [scene.Scene] interface.
//
// [scene] - The scene interface plus Memory, an in-process implementation, and
// Recorder, a call-counting wrapper.
//
// [source] - Record sources: files, readers, MongoDB collections and the
// built-in sample.
//
// [pipeline] - Load → Visualize → Render, shared by the CLI and the server.
//
// [render/sink] - Output formats for a scene snapshot.
//
// [cache] - Artifact and record caching with file, Redis and null backends.
//
// [server] - The HTTP API.
//
// [config] - The TOML configuration file.
//
// [observability] - Hooks for tracing pipeline, cache and server events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version data set at link time.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	records, _ := runner.Load(ctx, source.File{Path: "people.yaml"}, pipeline.Options{})
//	result, _ := runner.Render(ctx, records, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("people.svg", result.Artifacts["svg"], 0o644)
//
// [value]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/value
// [layout]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/layout
// [scene]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/scene
// [scene.Scene]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/scene#Scene
// [source]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/pipeline
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/datacanvas/pkg/buildinfo
package pkg
