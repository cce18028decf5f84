package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/avatar-tools-mcp/internal/imaging"
	"github.com/ironsheep/avatar-tools-mcp/internal/store/blob"
)

// defaultFileName names avatars whose caller gave no file name.
const defaultFileName = "avatar.jpg"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "avatar_crop").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Info("Tool call failed")
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(ctx, args)
	case "avatar_crop":
		return s.handleAvatarCrop(ctx, args)
	case "avatar_decode":
		return s.handleAvatarDecode(args)
	case "avatar_upload":
		return s.handleAvatarUpload(ctx, args)
	case "avatar_get":
		return s.handleAvatarGet(ctx, args)
	case "avatar_delete":
		return s.handleAvatarDelete(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return errors.New("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

type imageDimensionsArgs struct {
	Src string `json:"src"`
}

func (s *Server) handleImageDimensions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.pipeline.Loader().Load(ctx, a.Src)
	if err != nil {
		return nil, err
	}
	return imaging.Geometry(r), nil
}

type avatarCropArgs struct {
	Src      string              `json:"src"`
	Rotation float64             `json:"rotation"`
	Crop     *imaging.CropRegion `json:"crop"`
}

// AvatarCropResult is the avatar_crop tool result.
type AvatarCropResult struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MimeType  string `json:"mime_type"`
	SizeBytes int    `json:"size_bytes"`
	DataURL   string `json:"data_url"`
}

func (s *Server) handleAvatarCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a avatarCropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Crop == nil {
		return nil, errors.New("missing crop region")
	}

	out, err := s.pipeline.Run(ctx, imaging.CropRequest{
		Source:   a.Src,
		Rotation: a.Rotation,
		Region:   *a.Crop,
	})
	if err != nil {
		return nil, err
	}
	return &AvatarCropResult{
		Width:     out.Width,
		Height:    out.Height,
		MimeType:  out.MimeType,
		SizeBytes: len(out.Data),
		DataURL:   out.DataURL(),
	}, nil
}

type avatarFileArgs struct {
	DataURL  string `json:"data_url"`
	FileName string `json:"file_name"`
}

// AvatarDecodeResult is the avatar_decode tool result.
type AvatarDecodeResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
}

func (s *Server) decodeAvatarFile(args json.RawMessage) (*imaging.File, error) {
	var a avatarFileArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.FileName == "" {
		a.FileName = defaultFileName
	}
	return imaging.DecodeReferenceToBytes(a.DataURL, a.FileName)
}

func (s *Server) handleAvatarDecode(args json.RawMessage) (interface{}, error) {
	file, err := s.decodeAvatarFile(args)
	if err != nil {
		return nil, err
	}
	return &AvatarDecodeResult{
		FileName:    file.Name,
		ContentType: file.ContentType,
		SizeBytes:   len(file.Data),
	}, nil
}

var errNoStore = errors.New("avatar storage is not configured")

func (s *Server) handleAvatarUpload(ctx context.Context, args json.RawMessage) (interface{}, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	file, err := s.decodeAvatarFile(args)
	if err != nil {
		return nil, err
	}
	obj, err := s.store.Put(ctx, file.Name, file.ContentType, file.Data)
	if err != nil {
		return nil, err
	}
	s.log.WithField("key", obj.Key).Info("Uploaded avatar")
	return obj, nil
}

type avatarKeyArgs struct {
	Key string `json:"key"`
}

func (s *Server) avatarKey(args json.RawMessage) (string, error) {
	if s.store == nil {
		return "", errNoStore
	}
	var a avatarKeyArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return "", err
	}
	if a.Key == "" {
		return "", errors.New("missing key")
	}
	if err := blob.ValidateKey(a.Key); err != nil {
		return "", err
	}
	return a.Key, nil
}

// AvatarGetResult is the avatar_get tool result.
type AvatarGetResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
	DataURL     string `json:"data_url"`
}

func (s *Server) handleAvatarGet(ctx context.Context, args json.RawMessage) (interface{}, error) {
	key, err := s.avatarKey(args)
	if err != nil {
		return nil, err
	}
	obj, err := s.store.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("avatar %s: %w", key, err)
	}
	if err != nil {
		return nil, err
	}
	encoded := &imaging.EncodedImage{Data: obj.Data, MimeType: obj.ContentType}
	return &AvatarGetResult{
		Key:         obj.Key,
		URL:         obj.URL,
		ContentType: obj.ContentType,
		SizeBytes:   obj.Size,
		DataURL:     encoded.DataURL(),
	}, nil
}

// AvatarDeleteResult is the avatar_delete tool result.
type AvatarDeleteResult struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleAvatarDelete(ctx context.Context, args json.RawMessage) (interface{}, error) {
	key, err := s.avatarKey(args)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return nil, err
	}
	s.log.WithField("key", key).Info("Deleted avatar")
	return &AvatarDeleteResult{Key: key, Deleted: true}, nil
}
