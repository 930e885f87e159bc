package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "overlay_load_image",
			Description: "Load an image file as the page image. Previous word boxes, face boxes and text are cleared. Returns the image metadata and the page state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "overlay_load_sample",
			Description: "Load the built-in sample picture (two people and two lines of text). It recognizes in English without Tesseract installed.",
			InputSchema: noArgs(),
		},

		// Recognition
		{
			Name:        "overlay_recognize",
			Description: "Run OCR on the page image in the selected language, or the first installed profile language when that switch is on. Replaces the word boxes and extracted text.",
			InputSchema: noArgs(),
		},
		{
			Name:        "overlay_detect_faces",
			Description: "Find faces in the page image and box them. Face boxes survive later recognitions.",
			InputSchema: noArgs(),
		},
		{
			Name:        "overlay_clear",
			Description: "Remove all word boxes, face boxes and the extracted text.",
			InputSchema: noArgs(),
		},

		// Display
		{
			Name:        "overlay_resize_surface",
			Description: "Set the display surface size. Boxes are rescaled from source pixels to the new surface.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Surface width in display pixels",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Surface height in display pixels",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "overlay_state",
			Description: "Return the page state: image, surface, word and face boxes in display pixels, text, status banner and language controls.",
			InputSchema: noArgs(),
		},
		{
			Name:        "overlay_render",
			Description: "Draw the boxes over the image at the surface size. Returns a base64-encoded PNG, or writes the file when output is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the recognized word above each box",
						"default":     false,
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the rendering to; the extension picks the format",
					},
				},
			},
		},
		{
			Name:        "overlay_crop_word",
			Description: "Crop the source pixels of one recognized word and return them as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Word index in recognition order (0-based)",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around the word box",
						"default":     4,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the output",
						"default":     1.0,
					},
				},
				"required": []string{"index"},
			},
		},

		// Languages
		{
			Name:        "overlay_languages",
			Description: "List the installed OCR languages with display names, the selected one and the profile switch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"refresh": map[string]interface{}{
						"type":        "boolean",
						"description": "Ask the recognizer for its languages again",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "overlay_select_language",
			Description: "Select the OCR language. Accepts an installed code (\"deu\") or a BCP 47 tag that resolves to one (\"de-DE\").",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Language code or tag",
					},
				},
				"required": []string{"language"},
			},
		},
		{
			Name:        "overlay_toggle_profile_languages",
			Description: "Turn the \"use profile languages\" switch on or off. While on, recognition uses the first installed language from the user profile.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"on": map[string]interface{}{
						"type":        "boolean",
						"description": "New switch position",
					},
				},
				"required": []string{"on"},
			},
		},

		// Speech
		{
			Name:        "overlay_speak",
			Description: "Read the extracted text aloud, or stop reading if speech is playing.",
			InputSchema: noArgs(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
