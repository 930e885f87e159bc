package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/ocr-overlay/internal/detection"
	"github.com/ironsheep/ocr-overlay/internal/imaging"
	"github.com/ironsheep/ocr-overlay/internal/ocr"
	"github.com/ironsheep/ocr-overlay/internal/page"
	"github.com/ironsheep/ocr-overlay/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "overlay_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// The page has usually put a user message in the status banner by then;
// overlay_state shows it.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the page operation behind it.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image
	case "overlay_load_image":
		return s.handleLoadImage(args)
	case "overlay_load_sample":
		return s.handleLoadSample()

	// Recognition
	case "overlay_recognize":
		return s.handleRecognize(ctx)
	case "overlay_detect_faces":
		return s.handleDetectFaces(ctx)
	case "overlay_clear":
		if err := s.page.Clear(); err != nil {
			return nil, err
		}
		return s.page.View(), nil

	// Display
	case "overlay_resize_surface":
		return s.handleResizeSurface(args)
	case "overlay_state":
		return s.page.View(), nil
	case "overlay_render":
		return s.handleRender(args)
	case "overlay_crop_word":
		return s.handleCropWord(args)

	// Languages
	case "overlay_languages":
		return s.handleLanguages(args)
	case "overlay_select_language":
		return s.handleSelectLanguage(args)
	case "overlay_toggle_profile_languages":
		return s.handleToggleProfileLanguages(args)

	// Speech
	case "overlay_speak":
		return s.handleSpeak(ctx)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as the zero
// value so tools without required parameters can be called bare.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Handlers ===

type loadImageArgs struct {
	Path string `json:"path"`
}

type loadImageResult struct {
	Info *imaging.ImageInfo `json:"info"`
	View session.View       `json:"view"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := s.page.LoadImage(a.Path); err != nil {
		return nil, err
	}
	info, err := s.page.ImageInfo()
	if err != nil {
		return nil, err
	}
	return loadImageResult{Info: info, View: s.page.View()}, nil
}

func (s *Server) handleLoadSample() (interface{}, error) {
	if err := s.page.LoadSample(); err != nil {
		return nil, err
	}
	info, err := s.page.ImageInfo()
	if err != nil {
		return nil, err
	}
	return loadImageResult{Info: info, View: s.page.View()}, nil
}

// === Recognition Handlers ===

type recognizeResult struct {
	Recognition *page.Recognition `json:"recognition"`
	View        session.View      `json:"view"`
}

func (s *Server) handleRecognize(ctx context.Context) (interface{}, error) {
	rec, err := s.page.Recognize(ctx)
	if err != nil {
		return nil, err
	}
	return recognizeResult{Recognition: rec, View: s.page.View()}, nil
}

type detectFacesResult struct {
	Faces []detection.Face `json:"faces"`
	View  session.View     `json:"view"`
}

func (s *Server) handleDetectFaces(ctx context.Context) (interface{}, error) {
	faces, err := s.page.DetectFaces(ctx)
	if err != nil {
		return nil, err
	}
	if faces == nil {
		faces = []detection.Face{}
	}
	return detectFacesResult{Faces: faces, View: s.page.View()}, nil
}

// === Display Handlers ===

type resizeSurfaceArgs struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResizeSurface(args json.RawMessage) (interface{}, error) {
	var a resizeSurfaceArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.page.Resize(a.Width, a.Height); err != nil {
		return nil, err
	}
	return s.page.View(), nil
}

type renderArgs struct {
	Labels bool   `json:"labels"`
	Output string `json:"output"`
}

type renderResult struct {
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Output string                `json:"output,omitempty"`
	Image  *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	img, err := s.page.Render(a.Labels)
	if err != nil {
		return nil, err
	}

	result := renderResult{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}
	if a.Output != "" {
		if err := imaging.Save(img, a.Output); err != nil {
			return nil, err
		}
		result.Output = a.Output
		return result, nil
	}

	encoded, err := imaging.Encode(img)
	if err != nil {
		return nil, err
	}
	result.Image = encoded
	return result, nil
}

type cropWordArgs struct {
	Index   int      `json:"index"`
	Padding *int     `json:"padding"`
	Scale   *float64 `json:"scale"`
}

func (s *Server) handleCropWord(args json.RawMessage) (interface{}, error) {
	var a cropWordArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	padding := 4
	if a.Padding != nil {
		padding = *a.Padding
	}
	scale := 1.0
	if a.Scale != nil {
		scale = *a.Scale
	}
	return s.page.CropWord(a.Index, padding, scale)
}

// === Language Handlers ===

type languagesArgs struct {
	Refresh bool `json:"refresh"`
}

// LanguageInfo is one installed OCR language.
type LanguageInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type languagesResult struct {
	Available        []LanguageInfo `json:"available"`
	Selected         string         `json:"selected,omitempty"`
	ProfileLanguages bool           `json:"profile_languages"`
	Status           string         `json:"status"`
}

func (s *Server) handleLanguages(args json.RawMessage) (interface{}, error) {
	var a languagesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	var available []string
	if a.Refresh {
		langs, err := s.page.RefreshLanguages()
		if err != nil {
			return nil, err
		}
		available = langs
	} else {
		available = s.page.Session().Available()
	}
	return s.languages(available), nil
}

func (s *Server) languages(available []string) languagesResult {
	infos := make([]LanguageInfo, len(available))
	for i, code := range available {
		infos[i] = LanguageInfo{Code: code, Name: ocr.DisplayName(code)}
	}
	view := s.page.View()
	return languagesResult{
		Available:        infos,
		Selected:         view.Controls.Selected,
		ProfileLanguages: view.Controls.ProfileLanguages,
		Status:           view.Status.Message,
	}
}

type selectLanguageArgs struct {
	Language string `json:"language"`
}

func (s *Server) handleSelectLanguage(args json.RawMessage) (interface{}, error) {
	var a selectLanguageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.page.SelectLanguage(a.Language); err != nil {
		return nil, err
	}
	return s.languages(s.page.Session().Available()), nil
}

type toggleProfileLanguagesArgs struct {
	On bool `json:"on"`
}

func (s *Server) handleToggleProfileLanguages(args json.RawMessage) (interface{}, error) {
	var a toggleProfileLanguagesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.page.ToggleProfileLanguages(a.On); err != nil {
		return nil, err
	}
	return s.languages(s.page.Session().Available()), nil
}

// === Speech Handlers ===

type speakResult struct {
	Outcome string `json:"outcome"`
	Text    string `json:"text"`
}

func (s *Server) handleSpeak(ctx context.Context) (interface{}, error) {
	outcome, err := s.page.Speak(ctx)
	if err != nil {
		return nil, err
	}
	return speakResult{Outcome: outcome.String(), Text: s.page.Session().Text()}, nil
}
