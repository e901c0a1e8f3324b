package stix

import (
	"encoding/json"
	"fmt"
)

// Bundle is a decoded STIX bundle.
type Bundle struct {
	ID      string
	Objects []*Object
}

type rawBundle struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Objects []json.RawMessage `json:"objects"`
}

// DecodeBundle parses a STIX bundle document. Objects that lack the fields the
// server filters on are rejected with an error naming the offending index.
func DecodeBundle(data []byte) (*Bundle, error) {
	var rb rawBundle
	if err := json.Unmarshal(data, &rb); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if rb.Type != BundleType {
		return nil, fmt.Errorf("decode bundle: unexpected type %q", rb.Type)
	}

	b := &Bundle{ID: rb.ID, Objects: make([]*Object, 0, len(rb.Objects))}
	for i, raw := range rb.Objects {
		obj, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("bundle %s object %d: %w", rb.ID, i, err)
		}
		b.Objects = append(b.Objects, obj)
	}
	return b, nil
}

// CollectionInfo is the descriptive part of an x-mitre-collection object.
type CollectionInfo struct {
	ID          string
	Name        string
	Description string
}

// Collection returns the bundle's x-mitre-collection descriptor, if present.
func (b *Bundle) Collection() (*CollectionInfo, bool) {
	for _, o := range b.Objects {
		if o.Type != CollectionType {
			continue
		}
		var info struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal(o.Raw, &info); err != nil {
			continue
		}
		return &CollectionInfo{ID: o.ID, Name: info.Name, Description: info.Description}, true
	}
	return nil, false
}
