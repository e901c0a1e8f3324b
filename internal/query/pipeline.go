package query

import (
	"context"
	"iter"
	"slices"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// Pipeline composes the predicate and version stages over a candidate sequence.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	defaultSpecVersion string
}

// NewPipeline returns a pipeline enforcing defaultSpecVersion when a request has
// no spec_version filter. An empty value selects DefaultSpecVersion.
func NewPipeline(defaultSpecVersion string) *Pipeline {
	if defaultSpecVersion == "" {
		defaultSpecVersion = DefaultSpecVersion
	}
	return &Pipeline{defaultSpecVersion: defaultSpecVersion}
}

// DefaultSpecVersion returns the spec_version token enforced by default.
func (p *Pipeline) DefaultSpecVersion() string {
	return p.defaultSpecVersion
}

// Filter selects revisions from a fully materialised candidate set.
func (p *Pipeline) Filter(candidates []*stix.Object, spec *Spec) ([]*stix.Object, error) {
	if spec.CollectionID == "" {
		return nil, common.ErrMissingCollectionID
	}

	survivors := make([]*stix.Object, 0, len(candidates))
	for _, obj := range candidates {
		if MatchesNonVersion(obj, spec, p.defaultSpecVersion) {
			survivors = append(survivors, obj)
		}
	}
	return p.Resolve(survivors, spec), nil
}

// FilterStream applies the predicate stage to candidates as they arrive.
// Version selection is not possible per item; pass the collected survivors to
// Resolve. Iteration stops at the first source error or when ctx is done, and
// the error is yielded unchanged.
func (p *Pipeline) FilterStream(ctx context.Context, candidates iter.Seq2[*stix.Object, error], spec *Spec) iter.Seq2[*stix.Object, error] {
	return func(yield func(*stix.Object, error) bool) {
		if spec.CollectionID == "" {
			yield(nil, common.ErrMissingCollectionID)
			return
		}
		for obj, err := range candidates {
			if err != nil {
				yield(nil, err)
				return
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(nil, ctxErr)
				return
			}
			if !MatchesNonVersion(obj, spec, p.defaultSpecVersion) {
				continue
			}
			if !yield(obj, nil) {
				return
			}
		}
	}
}

// Collect drains FilterStream and resolves versions. Nothing is returned when
// the stream fails, so a cancelled request never yields a partial result.
func (p *Pipeline) Collect(ctx context.Context, candidates iter.Seq2[*stix.Object, error], spec *Spec) ([]*stix.Object, error) {
	var survivors []*stix.Object
	for obj, err := range p.FilterStream(ctx, candidates, spec) {
		if err != nil {
			return nil, err
		}
		survivors = append(survivors, obj)
	}
	return p.Resolve(survivors, spec), nil
}

// Resolve groups revisions by id, applies ResolveVersions per group and returns
// the result ordered ascending by created.
func (p *Pipeline) Resolve(survivors []*stix.Object, spec *Spec) []*stix.Object {
	var order []string
	groups := make(map[string][]*stix.Object)
	for _, obj := range survivors {
		if _, ok := groups[obj.ID]; !ok {
			order = append(order, obj.ID)
		}
		groups[obj.ID] = append(groups[obj.ID], obj)
	}

	result := make([]*stix.Object, 0, len(survivors))
	for _, id := range order {
		result = append(result, ResolveVersions(groups[id], spec.Match.Version)...)
	}

	slices.SortStableFunc(result, func(a, b *stix.Object) int {
		return a.Created.Time.Compare(b.Created.Time)
	})
	return result
}
