package catalog

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrCorrupt marks persisted catalog bytes that could not be decoded.
var ErrCorrupt = errors.New("catalog data is corrupt")

// CorruptError carries the decode failure and where the raw bytes were moved.
type CorruptError struct {
	QuarantineKey string
	Err           error
}

func (e *CorruptError) Error() string {
	if e.QuarantineKey == "" {
		return fmt.Sprintf("catalog data is corrupt: %v", e.Err)
	}
	return fmt.Sprintf("catalog data is corrupt (raw bytes kept under %q): %v", e.QuarantineKey, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorrupt) match.
func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// Encode serializes the catalog as a JSON array. Empty image lists encode as [].
func Encode(c Catalog) ([]byte, error) {
	b, err := json.Marshal(c.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return b, nil
}

// Decode parses a JSON array of products. A JSON null decodes to an empty
// catalog; anything that is not an array of objects is an error, and so is a
// repeated product id.
func Decode(data []byte) (Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty payload")
	}
	var c Catalog
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(c))
	for i, p := range c {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return c.Clone(), nil
}
