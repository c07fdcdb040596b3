package scene

import "sync"

// Calls counts the operations issued through a Recorder.
type Calls struct {
	Clears      int
	Containers  int
	Labels      int
	Assets      int
	Images      int
	Updates     int
	Fits        int
	AssetFaults int
}

// Recorder forwards to an inner Scene and counts successful calls.
type Recorder struct {
	Scene
	mu    sync.Mutex
	calls Calls
}

// NewRecorder wraps inner.
func NewRecorder(inner Scene) *Recorder {
	return &Recorder{Scene: inner}
}

// Calls returns a copy of the counters.
func (r *Recorder) Calls() Calls {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Reset zeroes the counters.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = Calls{}
}

func (r *Recorder) count(err error, f func(c *Calls)) error {
	if err == nil {
		r.mu.Lock()
		f(&r.calls)
		r.mu.Unlock()
	}
	return err
}

func (r *Recorder) ClearAll() error {
	return r.count(r.Scene.ClearAll(), func(c *Calls) { c.Clears++ })
}

func (r *Recorder) CreateContainer(c Container) error {
	return r.count(r.Scene.CreateContainer(c), func(c *Calls) { c.Containers++ })
}

func (r *Recorder) CreateLabel(l Label) error {
	return r.count(r.Scene.CreateLabel(l), func(c *Calls) { c.Labels++ })
}

func (r *Recorder) CreateAsset(a Asset) (AssetID, error) {
	id, err := r.Scene.CreateAsset(a)
	if err != nil {
		r.mu.Lock()
		r.calls.AssetFaults++
		r.mu.Unlock()
		return id, err
	}
	return id, r.count(nil, func(c *Calls) { c.Assets++ })
}

func (r *Recorder) CreateImage(img Image) error {
	return r.count(r.Scene.CreateImage(img), func(c *Calls) { c.Images++ })
}

func (r *Recorder) UpdateContainerSize(id NodeID, w, h float64) error {
	return r.count(r.Scene.UpdateContainerSize(id, w, h), func(c *Calls) { c.Updates++ })
}

func (r *Recorder) FitViewToContent() error {
	return r.count(r.Scene.FitViewToContent(), func(c *Calls) { c.Fits++ })
}

var _ Scene = (*Recorder)(nil)
