// Package imaging loads, renders and crops the images shown under the OCR
// overlay.
//
// It wraps disintegration/imaging for decoding, resizing and cropping, and
// draws the overlay itself: word boxes in their style colors, rotated with
// the recognized text angle, and face boxes. It also generates the built-in
// sample image used when no picture is at hand.
//
// # Coordinate System
//
// Two pixel spaces are involved:
//   - source pixels: the decoded image, auto-oriented from EXIF, origin at
//     the top-left, X rightward and Y downward
//   - display pixels: the surface the image is scaled to for viewing
//
// Render takes boxes in display pixels (overlay frames) and scales the image
// to the surface before drawing. CropWord takes bounds in source pixels.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Render, CropWord and NewSample are
// stateless and never modify their input images.
//
// # Colors
//
// Style colors are hex strings, "#RRGGBB" or the short "#RGB" form, parsed
// with go-colorful. DefaultColors supplies any style left unset.
package imaging
