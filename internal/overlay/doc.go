// Package overlay keeps recognized-word bounding boxes aligned with an image
// that is displayed at a size different from its pixel size.
//
// Recognizers report word rectangles in source-image pixels. The display surface
// the image is shown on can be any size and is resized at will, so every box
// needs a display-space rectangle derived from its source rectangle and the
// current scale factors. The Engine owns that set of boxes.
//
// # Transform Model
//
// The mapping from source pixels to display space is a non-uniform scale:
//
//	scaleX = displayWidth / sourceWidth
//	scaleY = displayHeight / sourceHeight
//	display = source * (scaleX, scaleY)
//
// Display rectangles are always re-derived from the immutable source
// rectangle, never from the previous display rectangle, so applying the same
// transform any number of times yields the same geometry.
//
// When the recognizer reports that the whole text block is rotated, a single
// rotation is applied to the overlay as a group. Its center is the midpoint of
// the display surface's rendered size (not the source image's pixel size) and
// it is recentered on every resize.
//
// # Line Styles
//
// A line whose word union is taller than it is wide is rendered in the vertical
// style; every other line uses the horizontal style. Face boxes use their own
// style and are kept in a separate Engine so they never pick up the text
// rotation.
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. It is owned by a single session and
// mutated only from that session's event handling.
package overlay
