package layout

// Metrics holds every distance used by the engine, in canvas units.
type Metrics struct {
	FrameWidth      float64 // container width, never changed by content
	FrameHeight     float64 // initial and minimum height of nested containers
	PrimitiveHeight float64 // initial height of a bare primitive container
	TitleBand       float64 // space reserved above the first entry
	Padding         float64 // inset of a bare primitive's child and of key labels
	Indent          float64 // extra horizontal shift per nesting level
	ValueColumn     float64 // horizontal offset of entry values
	ImageSize       float64 // width and height of image nodes
	ImageGap        float64 // vertical gap after an image entry
	RowHeight       float64 // cursor advance after a label entry
	NestedAdvance   float64 // cursor advance after a nested container
	BottomPadding   float64 // added below the last entry on reconciliation
}

// DefaultMetrics returns the standard geometry.
func DefaultMetrics() Metrics {
	return Metrics{
		FrameWidth:      300,
		FrameHeight:     100,
		PrimitiveHeight: 40,
		TitleBand:       40,
		Padding:         10,
		Indent:          20,
		ValueColumn:     120,
		ImageSize:       200,
		ImageGap:        10,
		RowHeight:       30,
		NestedAdvance:   100,
		BottomPadding:   20,
	}
}

// keyX returns the x of key labels inside a frame at x drawn at depth.
func (m Metrics) keyX(x float64, depth int) float64 {
	return x + m.Padding + m.Indent*float64(depth)
}

// valueX returns the x of entry values inside a frame at x drawn at depth.
func (m Metrics) valueX(x float64, depth int) float64 {
	return x + m.ValueColumn + m.Indent*float64(depth)
}

// reconcile returns the final height of a frame at y whose cursor ended at cursor.
func (m Metrics) reconcile(y, cursor float64) float64 {
	return max(cursor-y+m.BottomPadding, m.FrameHeight)
}
