// Package docpath addresses nested locations in the portfolio document by
// dotted path, e.g. "goals.shortTerm.0.text.ar". Numeric segments index
// into arrays, other segments into object fields.
package docpath

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrInvalidPath = errors.New("docpath: invalid path")

// Get resolves path against doc. The second return is false when any
// segment along the path is missing.
func Get(doc []byte, path string) (gjson.Result, bool) {
	result := gjson.GetBytes(doc, path)
	return result, result.Exists()
}

// GetString is Get for string leaves, returning "" when absent.
func GetString(doc []byte, path string) string {
	return gjson.GetBytes(doc, path).String()
}

// Set returns a new document with the value at path replaced. Writing
// through missing intermediate containers is the caller's bug; paths must
// target locations whose parents already exist.
func Set(doc []byte, path string, value interface{}) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	updated, err := sjson.SetBytes(doc, path, value)
	if err != nil {
		return nil, fmt.Errorf("docpath: set %q: %w", path, err)
	}
	return updated, nil
}

// SetRaw is Set with a pre-encoded JSON payload, used for whole-collection
// replacement.
func SetRaw(doc []byte, path string, raw []byte) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	updated, err := sjson.SetRawBytes(doc, path, raw)
	if err != nil {
		return nil, fmt.Errorf("docpath: set raw %q: %w", path, err)
	}
	return updated, nil
}
