// Package models defines server-side data models persisted in the database.
package models

import "time"

// Collection is a named set of STIX objects served under the API root.
type Collection struct {
	// ID is the TAXII collection identifier, usually the x-mitre-collection id.
	ID string
	// Title and Description are shown in the collection resource.
	Title       string
	Description string
	// Alias is an optional human-friendly name.
	Alias string
	// Source is the object-storage key the collection was hydrated from.
	Source string

	UpdatedAt time.Time
}
