// Package source loads the records to visualize.
//
// A [Source] yields an ordered list of [value.Value] records. Implementations:
//
//   - [Sample]: the built-in demo dataset of four people.
//   - [File]: a local JSON, JSON Lines, YAML or TOML file.
//   - [Reader]: any io.Reader in one of the file formats (stdin, request bodies).
//   - [Mongo]: documents from a MongoDB collection.
//
// Every implementation preserves the key order of the underlying document, since
// the layout stacks entries in that order. A top-level array is split into one
// record per element; any other top-level value is a single record.
package source
