package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const dataURLScheme = "data:"

var errNotDataURL = errors.New("not a data URL")

// parseDataURL splits an RFC 2397 data URL into its media type and payload.
//
// The media type is returned without parameters and lower-cased; it is empty
// when the header does not name one. Base64 payloads tolerate missing padding
// and embedded whitespace, both of which browsers emit.
func parseDataURL(ref string) (string, []byte, error) {
	if !isDataURL(ref) {
		return "", nil, errNotDataURL
	}
	header, payload, ok := strings.Cut(ref[len(dataURLScheme):], ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload separator")
	}

	params := strings.Split(header, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if !isBase64 {
		data, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("invalid percent-encoded payload: %w", err)
		}
		return mediaType, []byte(data), nil
	}

	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mediaType, data, nil
}

func isDataURL(ref string) bool {
	return len(ref) >= len(dataURLScheme) && strings.EqualFold(ref[:len(dataURLScheme)], dataURLScheme)
}

// formatDataURL renders data as a base64 data URL of the given media type.
func formatDataURL(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(dataURLScheme) + len(mediaType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataURLScheme)
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// describeRef shortens a reference for logs and error messages.
func describeRef(ref string) string {
	if isDataURL(ref) {
		header, _, _ := strings.Cut(ref, ",")
		return header + ",…"
	}
	if len(ref) > 128 {
		return ref[:128] + "…"
	}
	return ref
}
