// Package server implements the MCP (Model Context Protocol) server for the
// OCR overlay page.
//
// This package provides a JSON-RPC 2.0 server that exposes one page.Page as
// a set of tools. An MCP client loads an image, runs recognition and face
// detection, resizes the display surface and reads back the boxes in display
// pixels, or asks for a rendered overlay.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - overlay_load_image: Load an image file
//   - overlay_load_sample: Load the built-in sample picture
//
// Recognition:
//   - overlay_recognize: Run OCR and box the words
//   - overlay_detect_faces: Box the faces
//   - overlay_clear: Remove all boxes and text
//
// Display:
//   - overlay_resize_surface: Set the display surface size
//   - overlay_state: Snapshot the page
//   - overlay_render: Draw the boxes over the image
//   - overlay_crop_word: Cut one word out of the source image
//
// Languages:
//   - overlay_languages: List installed languages
//   - overlay_select_language: Pick the OCR language
//   - overlay_toggle_profile_languages: Use the profile languages instead
//
// Speech:
//   - overlay_speak: Read the text aloud, or stop reading
//
// # Errors
//
// Tool failures return JSON-RPC error -32000 with the Go error as data.
// Most failures also leave a user message in the page status banner, which
// overlay_state returns.
//
// # Concurrency
//
// Requests are handled one at a time in the order they arrive. The page and
// its session are never touched by two requests at once.
package server
