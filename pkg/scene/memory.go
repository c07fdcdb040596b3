package scene

import (
	"math"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/matzehuels/datacanvas/pkg/errors"
)

// NodeKind distinguishes the node variants held by Memory.
type NodeKind string

const (
	KindContainer NodeKind = "frame"
	KindLabel     NodeKind = "text"
	KindImage     NodeKind = "image"
)

// Text metrics used to estimate label bounds, which autosize in the canvas.
const (
	CharWidth  = 9.0
	LineHeight = 24.0
)

// Node is the stored form of any scene node.
type Node struct {
	ID      NodeID   `json:"id"`
	Kind    NodeKind `json:"kind"`
	Parent  NodeID   `json:"parent,omitempty"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	W       float64  `json:"w"`
	H       float64  `json:"h"`
	Text    string   `json:"text,omitempty"`
	Style   Style    `json:"style,omitempty"`
	AssetID AssetID  `json:"asset_id,omitempty"`
}

// Bounds returns the node rectangle. Labels are estimated from their text.
func (n Node) Bounds() Rect {
	if n.Kind == KindLabel {
		return Rect{X: n.X, Y: n.Y, W: float64(utf8.RuneCountInString(n.Text)) * CharWidth, H: LineHeight}
	}
	return Rect{X: n.X, Y: n.Y, W: n.W, H: n.H}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.W, o.X+o.W)
	y1 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ViewPadding is the margin added around content by FitViewToContent.
const ViewPadding = 50.0

// Snapshot is an immutable copy of a scene's contents.
type Snapshot struct {
	Nodes    []Node  `json:"nodes"`
	Assets   []Asset `json:"assets"`
	Viewport Rect    `json:"viewport"`
}

// Count returns the number of nodes of kind k.
func (s Snapshot) Count(k NodeKind) int {
	n := 0
	for _, node := range s.Nodes {
		if node.Kind == k {
			n++
		}
	}
	return n
}

// Children returns the nodes whose parent is id, in creation order.
func (s Snapshot) Children(id NodeID) []Node {
	var out []Node
	for _, node := range s.Nodes {
		if node.Parent == id {
			out = append(out, node)
		}
	}
	return out
}

// Node returns the node with the given id.
func (s Snapshot) Node(id NodeID) (Node, bool) {
	for _, node := range s.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return Node{}, false
}

// Asset returns the asset with the given id.
func (s Snapshot) Asset(id AssetID) (Asset, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// Bounds returns the union of all node rectangles.
func (s Snapshot) Bounds() (Rect, bool) {
	if len(s.Nodes) == 0 {
		return Rect{}, false
	}
	r := s.Nodes[0].Bounds()
	for _, n := range s.Nodes[1:] {
		r = r.Union(n.Bounds())
	}
	return r, true
}

// AssetValidator decides whether an asset source can be registered.
type AssetValidator func(a Asset) error

// MemoryOption configures a Memory scene.
type MemoryOption func(*Memory)

// WithAssetValidator replaces the default source check.
func WithAssetValidator(v AssetValidator) MemoryOption {
	return func(m *Memory) { m.validate = v }
}

// Memory is an in-process Scene. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	nodes    map[NodeID]*Node
	order    []NodeID
	assets   map[AssetID]Asset
	assetIDs []AssetID
	viewport Rect
	validate AssetValidator
}

// NewMemory returns an empty scene.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		nodes:    make(map[NodeID]*Node),
		assets:   make(map[AssetID]Asset),
		validate: ValidateAssetSource,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ClearAll deletes every node. Assets are kept, as in the canvas engine.
func (m *Memory) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = make(map[NodeID]*Node)
	m.order = nil
	m.viewport = Rect{}
	return nil
}

func (m *Memory) CreateContainer(c Container) error {
	return m.put(Node{ID: c.ID, Kind: KindContainer, Parent: c.Parent, X: c.X, Y: c.Y, W: c.W, H: c.H, Text: c.Label})
}

func (m *Memory) CreateLabel(l Label) error {
	return m.put(Node{ID: l.ID, Kind: KindLabel, Parent: l.Parent, X: l.X, Y: l.Y, Text: l.Text, Style: l.Style})
}

func (m *Memory) CreateAsset(a Asset) (AssetID, error) {
	if err := m.validate(a); err != nil {
		return "", err
	}
	if a.ID == "" {
		a.ID = NewAssetID()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[a.ID]; !ok {
		m.assetIDs = append(m.assetIDs, a.ID)
	}
	m.assets[a.ID] = a
	return a.ID, nil
}

func (m *Memory) CreateImage(img Image) error {
	m.mu.RLock()
	_, ok := m.assets[img.AssetID]
	m.mu.RUnlock()
	if !ok {
		return errors.New(errors.ErrCodeAssetCreation, "image %s references unknown asset %s", img.ID, img.AssetID)
	}
	return m.put(Node{ID: img.ID, Kind: KindImage, Parent: img.Parent, X: img.X, Y: img.Y, W: img.W, H: img.H, AssetID: img.AssetID})
}

func (m *Memory) UpdateContainerSize(id NodeID, w, h float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok || n.Kind != KindContainer {
		return errors.New(errors.ErrCodeUnknownNode, "no container %s", id)
	}
	n.W, n.H = w, h
	return nil
}

func (m *Memory) FitViewToContent() error {
	snap := m.Snapshot()
	r, ok := snap.Bounds()
	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok {
		m.viewport = Rect{}
		return nil
	}
	m.viewport = Rect{X: r.X - ViewPadding, Y: r.Y - ViewPadding, W: r.W + 2*ViewPadding, H: r.H + 2*ViewPadding}
	return nil
}

// Viewport returns the rectangle set by the last FitViewToContent.
func (m *Memory) Viewport() Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// Len returns the number of nodes.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Snapshot copies the current contents in creation order.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Nodes:    make([]Node, 0, len(m.order)),
		Assets:   make([]Asset, 0, len(m.assetIDs)),
		Viewport: m.viewport,
	}
	for _, id := range m.order {
		snap.Nodes = append(snap.Nodes, *m.nodes[id])
	}
	for _, id := range m.assetIDs {
		snap.Assets = append(snap.Assets, m.assets[id])
	}
	return snap
}

func (m *Memory) put(n Node) error {
	if n.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "node id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.Parent != "" {
		if _, ok := m.nodes[n.Parent]; !ok {
			return errors.New(errors.ErrCodeUnknownNode, "parent %s of %s does not exist", n.Parent, n.ID)
		}
	}
	if _, exists := m.nodes[n.ID]; exists {
		m.order = slices.DeleteFunc(m.order, func(id NodeID) bool { return id == n.ID })
	}
	m.nodes[n.ID] = &n
	m.order = append(m.order, n.ID)
	return nil
}

var imagePathRe = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|svg|webp|bmp)$`)

// ValidateAssetSource accepts http(s) URLs with a host, data:image URIs and bare
// image file paths.
func ValidateAssetSource(a Asset) error {
	src := strings.TrimSpace(a.Src)
	if src == "" {
		return errors.New(errors.ErrCodeAssetCreation, "asset source is empty")
	}
	if strings.HasPrefix(src, "data:image/") {
		return nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAssetCreation, err, "invalid asset source %q", src)
	}
	switch u.Scheme {
	case "http", "https":
		if err := errors.ValidateURL(src); err != nil {
			return errors.Wrap(errors.ErrCodeAssetCreation, err, "invalid asset source %q", src)
		}
		return nil
	case "":
		if imagePathRe.MatchString(u.Path) {
			return nil
		}
	}
	return errors.New(errors.ErrCodeAssetCreation, "unsupported asset source %q", src)
}

var _ Scene = (*Memory)(nil)
