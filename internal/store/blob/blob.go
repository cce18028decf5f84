// Package blob holds the types shared by the avatar blob store backends.
package blob

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned by Get for an unknown key.
var ErrNotFound = errors.New("blob not found")

// Object is a stored avatar.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size_bytes"`
	Data        []byte `json:"-"`
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewKey derives a unique, path-free key from a user-supplied file name.
func NewKey(fileName string) (string, error) {
	name, err := SanitizeName(fileName)
	if err != nil {
		return "", err
	}
	return ulid.Make().String() + "-" + name, nil
}

// SanitizeName rejects names that are paths and replaces characters that are
// unsafe in object keys and file names.
func SanitizeName(fileName string) (string, error) {
	name := strings.TrimSpace(fileName)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q: must not be empty or a dot directory", fileName)
	}
	if path.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q: must not be a path", fileName)
	}
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if len(name) > 128 {
		name = name[len(name)-128:]
	}
	return name, nil
}

// ValidateKey checks a key handed back by a client before it reaches a backend.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || path.Base(key) != key || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// JoinURL appends key to base, or returns "" when base is empty.
func JoinURL(base, key string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + key
}
