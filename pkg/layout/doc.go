// Package layout turns nested record data into positioned scene nodes.
//
// # Overview
//
// [Engine.Traverse] walks one [value.Value] depth-first and draws it into a
// [scene.Scene]: every non-null value becomes a container frame, object and array
// entries are stacked vertically inside it, and nested values recurse into child
// frames shifted to the right. Placement is deterministic and single-pass; there is
// no constraint solving.
//
// # Geometry
//
// For a value drawn at (x, y) with nesting depth d, using the [DefaultMetrics]:
//
//   - The frame starts at 300×100 (300×40 for a bare primitive).
//   - A bare primitive draws one label or one 200×200 image at (x+10, y+10).
//   - Entries start at cursor y+40, below the frame title band.
//   - Each entry's key label sits at (x+10+20d, cursor) with text "key:".
//   - Its value sits at (x+120+20d, cursor): a nested frame (cursor += 100),
//     an image (cursor += 210) or a value label (cursor += 30).
//   - After the loop the frame is resized to max(cursor-y+20, 100) high.
//
// The fixed 100 advance after a nested frame ignores the child's real height, so
// deep children can overlap later siblings. [WithMeasuredNesting] advances by the
// child's reconciled height instead.
//
// # Degraded images
//
// A string that looks like an image (see [value.IsImageRef]) is registered as an
// asset and drawn as an image. When the scene rejects the asset or the image, the
// engine logs the fault and draws a red "[Image: <src>]" label in its place. No
// asset fault ever aborts a traversal.
package layout
