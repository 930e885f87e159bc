// Package detection finds faces in photographs so they can be boxed on the
// overlay next to recognized words.
//
// Face detection is a capability behind the FaceDetector interface. The page
// only consumes its resolved output (face rectangles in source pixels), so
// tests and other hosts substitute their own detectors.
//
// # Skin Detector
//
// SkinDetector is a pure-Go heuristic with no model files:
//
//   - the image is downscaled with disintegration/imaging and smoothed with a
//     bild Gaussian blur
//   - every pixel is classified as skin or not in HSV space (go-colorful)
//   - skin pixels are grouped into 8-connected blobs by flood fill
//   - blobs that are too small, too elongated or too sparse are dropped
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Returned bounds are in the pixel space of the image passed in, including
// its Bounds().Min offset.
//
// # Limitations
//
// The heuristic works best on well lit, front-facing faces against non-skin
// backgrounds. Profiles, heavy shadows, and sepia or monochrome photos are
// frequently missed; skin-toned surfaces may be reported as faces.
package detection
