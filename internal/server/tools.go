package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var srcProperty = map[string]interface{}{
	"type":        "string",
	"description": "Source image: a data URL (data:image/png;base64,...), an http(s) URL, or an absolute file path",
}

var dataURLProperty = map[string]interface{}{
	"type":        "string",
	"description": "Data URL of an exported avatar (as returned by avatar_crop)",
}

var keyProperty = map[string]interface{}{
	"type":        "string",
	"description": "Storage key of an uploaded avatar (as returned by avatar_upload)",
}

var fileNameProperty = map[string]interface{}{
	"type":        "string",
	"description": "File name for the avatar, e.g. avatar.jpg. Must not contain a path.",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of a source image together with its rotation-padded canvas (side = 2 x max(width, height)) and the offset of the image on that canvas.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"src": srcProperty,
				},
				"required": []string{"src"},
			},
		},
		{
			Name:        "avatar_crop",
			Description: "Rotate a source image clockwise about its center, crop a region and export it as JPEG. The crop x/y are relative to the image's top-left corner before rotation; width/height are the exact output size. Returns the JPEG as a data URL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"src": srcProperty,
					"rotation": map[string]interface{}{
						"type":        "number",
						"description": "Rotation in degrees, clockwise (0-360, wraps). Default 0",
						"default":     0,
					},
					"crop": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":      map[string]interface{}{"type": "integer"},
							"y":      map[string]interface{}{"type": "integer"},
							"width":  map[string]interface{}{"type": "integer", "minimum": 1},
							"height": map[string]interface{}{"type": "integer", "minimum": 1},
						},
						"required":    []string{"x", "y", "width", "height"},
						"description": "Crop region in pixels",
					},
				},
				"required": []string{"src", "crop"},
			},
		},
		{
			Name:        "avatar_decode",
			Description: "Decode an avatar data URL back into raw bytes and report the inferred content type and size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data_url":  dataURLProperty,
					"file_name": fileNameProperty,
				},
				"required": []string{"data_url"},
			},
		},
		{
			Name:        "avatar_upload",
			Description: "Decode an avatar data URL and store it as a named blob. Returns the storage key and public URL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data_url":  dataURLProperty,
					"file_name": fileNameProperty,
				},
				"required": []string{"data_url"},
			},
		},
		{
			Name:        "avatar_get",
			Description: "Fetch a stored avatar by key. Returns its public URL, content type, size and the bytes as a data URL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": keyProperty,
				},
				"required": []string{"key"},
			},
		},
		{
			Name:        "avatar_delete",
			Description: "Delete a stored avatar by key. Deleting a key that does not exist succeeds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": keyProperty,
				},
				"required": []string{"key"},
			},
		},
	}
}
