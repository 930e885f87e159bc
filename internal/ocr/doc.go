// Package ocr provides the text recognition capability behind the overlay.
//
// Recognition engines are opaque collaborators: they take an image and return
// lines of words with bounding rectangles in source-image pixels, plus an
// optional rotation angle for the whole text block. The overlay code only ever
// consumes those resolved results, so every engine sits behind the Recognizer
// interface and tests substitute fakes.
//
// # Engines
//
//   - Tesseract: the gosseract/v2 binding. Word and line structure is read from
//     Tesseract's hOCR output so that line grouping and "textangle" survive.
//   - Recorded: replays a YAML sidecar (<image>.ocr.yaml) captured from an
//     earlier run. Useful for demos without Tesseract and for repeatable tests.
//   - Chain: tries engines in order, moving on when one has no result.
//
// # Prerequisites
//
// The Tesseract engine needs CGO and the Tesseract/Leptonica libraries:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Builds without CGO get a stub that reports ErrUnavailable.
//
// # Languages
//
// Engines speak Tesseract language codes ("eng", "deu", "jpn", ...). Profile
// language tags such as "en-US" or "zh-Hant" are mapped with ResolveLanguage.
// FromProfile picks the first preferred language that is installed and Pick
// accepts an explicit choice only if it is installed; both report false when
// nothing suitable exists, which the page turns into "language not available".
//
// # Coordinate System
//
// Word bounds use the standard image convention: origin (0,0) at the top-left,
// X rightward, Y downward, rectangles given as top-left corner plus size.
package ocr
