package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datacanvas/pkg/scene"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// Asset defaults for registered images.
const (
	assetMimeType    = "image/png"
	bareAssetName    = "external-image.png"
	fallbackTemplate = "[Image: %s]"
)

// Stats counts what a traversal drew.
type Stats struct {
	Containers int
	Labels     int
	Images     int
	Fallbacks  int
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Containers: s.Containers + o.Containers,
		Labels:     s.Labels + o.Labels,
		Images:     s.Images + o.Images,
		Fallbacks:  s.Fallbacks + o.Fallbacks,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics replaces the default geometry.
func WithMetrics(m Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithLogger sets the logger used to report asset faults.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDs sets the source of node and asset IDs.
func WithIDs(ids scene.IDSource) Option {
	return func(e *Engine) {
		if ids != nil {
			e.ids = ids
		}
	}
}

// WithMeasuredNesting advances the cursor by a nested container's reconciled
// height instead of the fixed NestedAdvance.
func WithMeasuredNesting() Option { return func(e *Engine) { e.measured = true } }

// Engine draws values into a scene. An Engine is not safe for concurrent use;
// create one per goroutine.
type Engine struct {
	scene    scene.Scene
	metrics  Metrics
	logger   *log.Logger
	ids      scene.IDSource
	measured bool
	stats    Stats
}

// New returns an Engine drawing into sc.
func New(sc scene.Scene, opts ...Option) *Engine {
	e := &Engine{
		scene:   sc,
		metrics: DefaultMetrics(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		ids:     scene.RandomIDs{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metrics returns the geometry in use.
func (e *Engine) Metrics() Metrics { return e.metrics }

// Stats returns the counters accumulated since the last ResetStats.
func (e *Engine) Stats() Stats { return e.stats }

// ResetStats zeroes the counters.
func (e *Engine) ResetStats() { e.stats = Stats{} }

// Traverse draws v with its container at (x, y), owned by parent (empty for the
// page root). It returns the container's ID, or the empty ID when v is null.
//
// Asset and image faults are logged and degraded to fallback labels. Any other
// scene error aborts the traversal and is returned.
func (e *Engine) Traverse(v value.Value, parent scene.NodeID, x, y float64, depth int) (scene.NodeID, error) {
	id, _, err := e.traverse(v, parent, x, y, depth)
	return id, err
}

// traverse returns the container ID and its final height.
func (e *Engine) traverse(v value.Value, parent scene.NodeID, x, y float64, depth int) (scene.NodeID, float64, error) {
	kind := value.Classify(v)
	if kind == value.Null {
		return "", 0, nil
	}

	m := e.metrics
	frame := scene.Container{
		ID:     e.ids.Shape(),
		Parent: parent,
		X:      x,
		Y:      y,
		W:      m.FrameWidth,
		H:      m.FrameHeight,
		Label:  v.String(),
	}
	if kind == value.Primitive {
		frame.H = m.PrimitiveHeight
	}
	if err := e.scene.CreateContainer(frame); err != nil {
		return "", 0, fmt.Errorf("create container at (%g,%g): %w", x, y, err)
	}
	e.stats.Containers++

	if kind == value.Primitive {
		if err := e.drawPrimitive(v, frame.ID, x+m.Padding, y+m.Padding); err != nil {
			return "", 0, err
		}
		return frame.ID, frame.H, nil
	}

	cursor := y + m.TitleBand
	for _, entry := range v.Entries() {
		advance, err := e.drawEntry(entry, frame.ID, x, cursor, depth)
		if err != nil {
			return "", 0, err
		}
		cursor += advance
	}

	height := m.reconcile(y, cursor)
	if err := e.scene.UpdateContainerSize(frame.ID, m.FrameWidth, height); err != nil {
		return "", 0, fmt.Errorf("resize container %s: %w", frame.ID, err)
	}
	return frame.ID, height, nil
}

// drawPrimitive draws the single child of a bare primitive container.
func (e *Engine) drawPrimitive(v value.Value, parent scene.NodeID, x, y float64) error {
	if value.IsImageValue("", v) {
		src, _ := v.Text()
		return e.drawImage("", src, parent, x, y)
	}
	return e.label(parent, x, y, v.String(), scene.StyleValue)
}

// drawEntry draws one key/value entry at cursor and returns the cursor advance.
func (e *Engine) drawEntry(entry value.Member, parent scene.NodeID, x, cursor float64, depth int) (float64, error) {
	m := e.metrics
	if err := e.label(parent, m.keyX(x, depth), cursor, entry.Key+":", scene.StyleKey); err != nil {
		return 0, err
	}

	vx := m.valueX(x, depth)
	v := entry.Value
	switch {
	case v.IsNested():
		child, height, err := e.traverse(v, parent, vx, cursor, depth+1)
		if err != nil {
			return 0, err
		}
		if child == "" {
			return 0, nil
		}
		if e.measured {
			return height, nil
		}
		return m.NestedAdvance, nil

	case value.IsImageValue(entry.Key, v):
		src, _ := v.Text()
		before := e.stats.Fallbacks
		if err := e.drawImage(entry.Key, src, parent, vx, cursor); err != nil {
			return 0, err
		}
		if e.stats.Fallbacks > before {
			return m.RowHeight, nil
		}
		return m.ImageSize + m.ImageGap, nil

	default:
		// Null entries still get a value label, matching how the key is shown.
		return m.RowHeight, e.label(parent, vx, cursor, v.Quoted(), scene.StyleValue)
	}
}

// drawImage registers src as an asset and places an image, or a fallback label
// when the scene rejects either step.
func (e *Engine) drawImage(key, src string, parent scene.NodeID, x, y float64) error {
	m := e.metrics
	name := bareAssetName
	if key != "" {
		name = key + "-image.png"
	}

	assetID, err := e.scene.CreateAsset(scene.Asset{
		ID:       e.ids.Asset(),
		Name:     name,
		Src:      src,
		W:        m.ImageSize,
		H:        m.ImageSize,
		MimeType: assetMimeType,
	})
	if err == nil {
		err = e.scene.CreateImage(scene.Image{
			ID:      e.ids.Shape(),
			Parent:  parent,
			X:       x,
			Y:       y,
			W:       m.ImageSize,
			H:       m.ImageSize,
			AssetID: assetID,
		})
	}
	if err == nil {
		e.stats.Images++
		return nil
	}

	e.logger.Warn("image rejected, drawing fallback label", "key", key, "src", src, "err", err)
	e.stats.Fallbacks++
	return e.label(parent, x, y, fmt.Sprintf(fallbackTemplate, src), scene.StyleFallback)
}

func (e *Engine) label(parent scene.NodeID, x, y float64, text string, style scene.Style) error {
	err := e.scene.CreateLabel(scene.Label{
		ID:     e.ids.Shape(),
		Parent: parent,
		X:      x,
		Y:      y,
		Text:   text,
		Style:  style,
	})
	if err != nil {
		return fmt.Errorf("create label %q: %w", text, err)
	}
	e.stats.Labels++
	return nil
}
