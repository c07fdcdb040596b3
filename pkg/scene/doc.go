// Package scene defines the scene-graph capability that layout code draws into.
//
// A [Scene] is the narrow surface of an infinite-canvas drawing engine: create a
// container frame, a text label, an image backed by a registered asset, resize a
// container, clear everything, and fit the viewport to the content. The engine owns
// node identity, persistence and rendering; callers only supply IDs and geometry.
//
// # Implementations
//
//   - [Memory]: an in-process node and asset store. It backs tests, the renderers in
//     pkg/render/sink and the HTTP server.
//   - [Recorder]: wraps any Scene and counts the calls made through it.
//
// # Faults
//
// Only asset registration and image creation are expected to fail. Failures carry the
// ASSET_CREATION_FAILED code from pkg/errors so callers can degrade the rendering
// instead of aborting:
//
//	if _, err := sc.CreateAsset(a); errors.IsAssetFailure(err) {
//	    // render a fallback label
//	}
package scene
