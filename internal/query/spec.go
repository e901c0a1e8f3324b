// Package query selects the STIX object revisions a TAXII request asks for.
//
// Selection runs in two stages. The predicate stage (MatchesNonVersion) looks at
// one revision at a time and can run while candidates are still streaming from
// the store. The version stage (ResolveVersions) needs every surviving revision
// of an identity and therefore runs once the candidate sequence is exhausted.
package query

import (
	"time"

	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// Version filter keywords.
const (
	VersionAll   = "all"
	VersionFirst = "first"
	VersionLast  = "last"
)

// Combined spec_version tokens accepted as "either".
const (
	SpecVersionAny     = "2.0,2.1"
	SpecVersionAnyDesc = "2.1,2.0"
)

// DefaultSpecVersion is applied when a request carries no match[spec_version].
const DefaultSpecVersion = stix.SpecVersion21

// Match holds the match[...] filters. Within a field values are ORed, fields are ANDed.
// An empty field does not filter.
type Match struct {
	ID          []string
	Type        []string
	Version     []string
	SpecVersion []string
}

// Spec is the immutable per-request filter specification.
type Spec struct {
	CollectionID string
	// ObjectID narrows the request to a single identity when set.
	ObjectID string
	// AddedAfter is an exclusive lower bound on created.
	AddedAfter *time.Time
	// Limit is the page size; zero disables pagination.
	Limit int
	// Next is the page index to serve.
	Next  int
	Match Match
}
