package taxii

import (
	"encoding/json"

	"github.com/dmitrijs2005/taxiikeeper/internal/pagination"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// DateRange is the first and last date added of the objects on a page,
// reported in the X-TAXII-Date-Added-First/Last headers. Both are empty for
// an empty page.
type DateRange struct {
	First string
	Last  string
}

func dateRange(objs []*stix.Object) DateRange {
	if len(objs) == 0 {
		return DateRange{}
	}
	first, last := objs[0].Created, objs[0].Created
	for _, o := range objs[1:] {
		if o.Created.Time.Before(first.Time) {
			first = o.Created
		}
		if o.Created.Time.After(last.Time) {
			last = o.Created
		}
	}
	return DateRange{First: first.String(), Last: last.String()}
}

// ToEnvelope projects a page of revisions into an envelope of raw STIX objects.
func ToEnvelope(page *pagination.Page[*stix.Object]) (*Envelope, DateRange) {
	env := &Envelope{More: page.More, Next: page.Next}
	if len(page.Items) > 0 {
		env.Objects = make([]json.RawMessage, 0, len(page.Items))
		for _, o := range page.Items {
			env.Objects = append(env.Objects, o.Raw)
		}
	}
	return env, dateRange(page.Items)
}

// ToManifest projects a page of revisions into manifest records.
func ToManifest(page *pagination.Page[*stix.Object]) (*Manifest, DateRange) {
	m := &Manifest{More: page.More, Next: page.Next}
	if len(page.Items) > 0 {
		m.Objects = make([]*ManifestRecord, 0, len(page.Items))
		for _, o := range page.Items {
			m.Objects = append(m.Objects, &ManifestRecord{
				ID:        o.ID,
				DateAdded: o.Created.String(),
				Version:   o.Version(),
				MediaType: o.MediaType(),
			})
		}
	}
	return m, dateRange(page.Items)
}

// ToVersionList projects a page of revisions into their version identifiers.
func ToVersionList(page *pagination.Page[*stix.Object]) (*Versions, DateRange) {
	v := &Versions{More: page.More, Next: page.Next}
	if len(page.Items) > 0 {
		v.Versions = make([]string, 0, len(page.Items))
		for _, o := range page.Items {
			v.Versions = append(v.Versions, o.Version())
		}
	}
	return v, dateRange(page.Items)
}
