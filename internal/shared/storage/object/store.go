package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Store saves and retrieves objects by key.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// CleanKey normalizes a slash-separated key and rejects keys that escape the
// store root.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("invalid storage key")
	}
	clean := path.Clean("/" + strings.ReplaceAll(trimmed, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.Contains(trimmed, "..") {
		return "", fmt.Errorf("invalid storage key")
	}
	return clean, nil
}
