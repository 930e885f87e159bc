// Package page is the OCR overlay page: it wires the session to the
// capabilities that do the actual work.
//
// A Page owns one session.Session plus four collaborators:
//   - an ocr.Recognizer that turns an image into words
//   - a detection.FaceDetector that finds faces (optional)
//   - a Speaker that reads recognized text aloud (optional)
//   - an imaging.ImageCache holding the decoded image
//
// Every user action is a method. Each method calls its capability, then
// feeds the outcome into the session as an event, so the session remains the
// single source of truth for what the page shows.
//
// # Recognition Flow
//
// Recognize runs the same steps every time:
//
//  1. clear previous words and text (face boxes stay)
//  2. reject images wider or taller than MaxImageDimension
//  3. choose the language: the first installed profile language when the
//     profile switch is on, the selected list entry otherwise
//  4. run the recognizer
//  5. apply the result as a RecognitionCompleted event
//  6. speak the text when SpeakResults is set
//
// Failures in steps 2 to 4 are shown in the status banner and returned.
//
// # Concurrency
//
// A Page is not safe for concurrent use. The server handles one request at a
// time, which keeps the session single-threaded.
package page
