package sink

import (
	"encoding/json"

	"github.com/matzehuels/datacanvas/pkg/scene"
)

type jsonOutput struct {
	Viewport scene.Rect    `json:"viewport"`
	Counts   jsonCounts    `json:"counts"`
	Nodes    []scene.Node  `json:"nodes"`
	Assets   []scene.Asset `json:"assets"`
}

type jsonCounts struct {
	Frames int `json:"frames"`
	Texts  int `json:"texts"`
	Images int `json:"images"`
	Assets int `json:"assets"`
}

// RenderJSON serializes snap with indentation.
func RenderJSON(snap scene.Snapshot) ([]byte, error) {
	out := jsonOutput{
		Viewport: snap.Viewport,
		Counts: jsonCounts{
			Frames: snap.Count(scene.KindContainer),
			Texts:  snap.Count(scene.KindLabel),
			Images: snap.Count(scene.KindImage),
			Assets: len(snap.Assets),
		},
		Nodes:  snap.Nodes,
		Assets: snap.Assets,
	}
	if out.Nodes == nil {
		out.Nodes = []scene.Node{}
	}
	if out.Assets == nil {
		out.Assets = []scene.Asset{}
	}
	return json.MarshalIndent(out, "", "  ")
}
