package scene

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// NodeID identifies a node in a scene. The empty NodeID denotes the page root.
type NodeID string

// AssetID identifies a registered asset.
type AssetID string

// Style tags the role of a label.
type Style string

const (
	StyleKey      Style = "key-name"
	StyleValue    Style = "primitive-value"
	StyleFallback Style = "image-fallback"
)

// Color returns the label color name for s.
func (s Style) Color() string {
	switch s {
	case StyleValue:
		return "blue"
	case StyleFallback:
		return "red"
	}
	return "black"
}

// Font returns the label font family for s.
func (s Style) Font() string {
	if s == StyleValue {
		return "mono"
	}
	return "draw"
}

// Container is a rectangular frame that visually bounds its children.
type Container struct {
	ID     NodeID
	Parent NodeID
	X, Y   float64
	W, H   float64
	Label  string
}

// Label is a text node displaying a key name or a stringified primitive.
type Label struct {
	ID     NodeID
	Parent NodeID
	X, Y   float64
	Text   string
	Style  Style
}

// Image is a rendered image node bound to an Asset.
type Image struct {
	ID      NodeID
	Parent  NodeID
	X, Y    float64
	W, H    float64
	AssetID AssetID
}

// Asset is a registered external resource that an Image references.
type Asset struct {
	ID       AssetID `json:"id"`
	Name     string  `json:"name"`
	Src      string  `json:"src"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	MimeType string  `json:"mime_type"`
	Animated bool    `json:"animated"`
}

// Scene is the scene-graph API consumed by the layout engine.
type Scene interface {
	// ClearAll deletes every node currently in the scene.
	ClearAll() error

	CreateContainer(c Container) error
	CreateLabel(l Label) error

	// CreateAsset registers an asset. It fails with an ASSET_CREATION_FAILED
	// error when the source cannot be registered.
	CreateAsset(a Asset) (AssetID, error)

	// CreateImage places an image bound to a previously registered asset.
	CreateImage(img Image) error

	UpdateContainerSize(id NodeID, w, h float64) error

	// FitViewToContent adjusts the viewport to the bounds of all nodes.
	FitViewToContent() error
}

// NewShapeID returns a fresh random node ID.
func NewShapeID() NodeID {
	return NodeID("shape:" + uuid.NewString())
}

// NewAssetID returns a fresh random asset ID.
func NewAssetID() AssetID {
	return AssetID("asset:" + uuid.NewString())
}

// IDSource produces node and asset IDs.
type IDSource interface {
	Shape() NodeID
	Asset() AssetID
}

// RandomIDs produces UUID based IDs.
type RandomIDs struct{}

func (RandomIDs) Shape() NodeID  { return NewShapeID() }
func (RandomIDs) Asset() AssetID { return NewAssetID() }

// SequentialIDs produces predictable IDs ("shape:1", "asset:1", ...) for tests
// and reproducible artifacts.
type SequentialIDs struct {
	shapes atomic.Int64
	assets atomic.Int64
}

func (s *SequentialIDs) Shape() NodeID {
	return NodeID(fmt.Sprintf("shape:%d", s.shapes.Add(1)))
}

func (s *SequentialIDs) Asset() AssetID {
	return AssetID(fmt.Sprintf("asset:%d", s.assets.Add(1)))
}
