// Package tilegl renders the collision-debug overlay of a tiled map's
// symbol placement: wireframe boxes for label and icon collision bounds,
// and filled circles for per-glyph collision-test anchors.
//
// Collision circles are produced asynchronously by the placement
// subsystem against a projection that is stale by the time the frame is
// drawn. The circle path therefore re-projects each tile's circle data
// into current screen space and packs it into fixed-capacity uniform
// batches drawn over a single shared quad template, instead of building
// per-circle vertex buffers every frame.
package tilegl
