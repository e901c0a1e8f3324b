package query

import (
	"slices"

	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// MatchesNonVersion applies the id, type, spec_version and added_after checks
// to a single revision. defaultSpecVersion is used when the request carries no
// spec_version filter at all.
func MatchesNonVersion(obj *stix.Object, spec *Spec, defaultSpecVersion string) bool {
	if spec.ObjectID != "" && obj.ID != spec.ObjectID {
		return false
	}
	if !matchesAny(spec.Match.ID, obj.ID) {
		return false
	}
	if !matchesAny(spec.Match.Type, obj.Type) {
		return false
	}
	if !matchesSpecVersion(obj, spec.Match.SpecVersion, defaultSpecVersion) {
		return false
	}
	if spec.AddedAfter != nil && !obj.Created.Time.After(*spec.AddedAfter) {
		return false
	}
	return true
}

func matchesAny(values []string, v string) bool {
	return len(values) == 0 || slices.Contains(values, v)
}

func matchesSpecVersion(obj *stix.Object, tokens []string, defaultSpecVersion string) bool {
	if len(tokens) == 0 {
		return specVersionToken(obj, defaultSpecVersion)
	}
	for _, tok := range tokens {
		if specVersionToken(obj, tok) {
			return true
		}
	}
	return false
}

// specVersionToken evaluates one match[spec_version] token. STIX 2.0 objects
// never carry spec_version, 2.1 objects always carry "2.1".
func specVersionToken(obj *stix.Object, token string) bool {
	switch token {
	case stix.SpecVersion20:
		return obj.SpecVersion == ""
	case stix.SpecVersion21:
		return obj.SpecVersion == stix.SpecVersion21
	case SpecVersionAny, SpecVersionAnyDesc:
		return true
	default:
		return false
	}
}
