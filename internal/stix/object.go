// Package stix models the subset of STIX objects the server filters on.
// Everything else in an object travels untouched in Object.Raw.
package stix

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	SpecVersion20 = "2.0"
	SpecVersion21 = "2.1"

	// CollectionType is the ATT&CK collection object that describes a bundle.
	CollectionType = "x-mitre-collection"
	BundleType     = "bundle"
)

var (
	ErrMissingID        = errors.New("stix object has no id")
	ErrMissingType      = errors.New("stix object has no type")
	ErrMissingTimestamp = errors.New("stix object has neither created nor modified")
)

// Object is one revision of one STIX object.
//
// Modified is nil for unversioned objects; Created then doubles as the version marker.
// SpecVersion is empty for STIX 2.0 objects, which must not carry the property.
type Object struct {
	ID          string
	Type        string
	Created     Timestamp
	Modified    *Timestamp
	SpecVersion string
	Raw         json.RawMessage
}

type header struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
	SpecVersion string `json:"spec_version"`
}

// Decode extracts the filterable header of a raw STIX object. The raw bytes are
// retained as the pass-through payload.
func Decode(raw json.RawMessage) (*Object, error) {
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode stix object: %w", err)
	}
	if h.ID == "" {
		return nil, ErrMissingID
	}
	if h.Type == "" {
		return nil, fmt.Errorf("%s: %w", h.ID, ErrMissingType)
	}
	if h.Created == "" && h.Modified == "" {
		return nil, fmt.Errorf("%s: %w", h.ID, ErrMissingTimestamp)
	}

	obj := &Object{ID: h.ID, Type: h.Type, SpecVersion: h.SpecVersion, Raw: raw}

	if h.Modified != "" {
		m, err := ParseTimestamp(h.Modified)
		if err != nil {
			return nil, fmt.Errorf("%s modified: %w", h.ID, err)
		}
		obj.Modified = &m
	}
	if h.Created != "" {
		c, err := ParseTimestamp(h.Created)
		if err != nil {
			return nil, fmt.Errorf("%s created: %w", h.ID, err)
		}
		obj.Created = c
	} else {
		obj.Created = *obj.Modified
	}

	return obj, nil
}

// VersionStamp is modified when present, created otherwise.
func (o *Object) VersionStamp() Timestamp {
	if o.Modified != nil {
		return *o.Modified
	}
	return o.Created
}

// VersionTime is the instant identifying this revision.
func (o *Object) VersionTime() time.Time {
	return o.VersionStamp().Time
}

// Version is the textual version identifier reported in manifests and version lists.
func (o *Object) Version() string {
	return o.VersionStamp().String()
}

// MediaType is the STIX media type matching the object's spec version.
func (o *Object) MediaType() string {
	if o.SpecVersion == "" {
		return "application/stix+json;version=" + SpecVersion20
	}
	return "application/stix+json;version=" + o.SpecVersion
}
