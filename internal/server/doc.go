// Package server implements the MCP (Model Context Protocol) server for the
// avatar export tools.
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
//   - image_dimensions: Source size and padded canvas geometry
//   - avatar_crop: Rotate, crop and export as a JPEG data URL
//   - avatar_decode: Turn an avatar data URL back into bytes
//   - avatar_upload: Decode and store an avatar, returning its public URL
//   - avatar_get: Fetch a stored avatar by key
//   - avatar_delete: Remove a stored avatar
//
// Every call decodes its source afresh; the server keeps no image state
// between calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
