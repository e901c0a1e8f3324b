package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/pagination"
	"github.com/dmitrijs2005/taxiikeeper/internal/query"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
	"github.com/dmitrijs2005/taxiikeeper/internal/taxii"
)

// ObjectService answers envelope, manifest and version queries against a collection.
//
// Envelopes and version lists read candidates as a stream and paginate with
// pagination.Paginate. Manifests read the candidate set in one batch and are
// served from a pagination.Chain. Both paths produce the same pages.
type ObjectService struct {
	repomanager repomanager.RepositoryManager
	pipeline    *query.Pipeline
	metrics     *metrics.Metrics
}

func NewObjectService(repomanager repomanager.RepositoryManager, pipeline *query.Pipeline, m *metrics.Metrics) *ObjectService {
	return &ObjectService{repomanager: repomanager, pipeline: pipeline, metrics: m}
}

func (s *ObjectService) checkCollection(ctx context.Context, spec *query.Spec) error {
	if spec.CollectionID == "" {
		return common.ErrMissingCollectionID
	}
	if _, err := s.repomanager.Collections().Get(ctx, spec.CollectionID); err != nil {
		return fmt.Errorf("collection %s: %w", spec.CollectionID, err)
	}
	return nil
}

func (s *ObjectService) stream(ctx context.Context, spec *query.Spec) ([]*stix.Object, error) {
	candidates := s.repomanager.Objects().Stream(ctx, spec.CollectionID, spec.ObjectID)
	selected, err := s.pipeline.Collect(ctx, candidates, spec)
	if err != nil {
		return nil, err
	}
	if spec.ObjectID != "" && len(selected) == 0 {
		return nil, fmt.Errorf("object %s: %w", spec.ObjectID, common.ErrorNotFound)
	}
	return selected, nil
}

func (s *ObjectService) pageError(err error) error {
	if errors.Is(err, common.ErrPageOutOfRange) && s.metrics != nil {
		s.metrics.PagesOutOfRange.Inc()
	}
	return err
}

func (s *ObjectService) served(resource string, n int) {
	if s.metrics != nil {
		s.metrics.RecordServed(resource, n)
	}
}

// Objects returns one page of full objects.
func (s *ObjectService) Objects(ctx context.Context, spec *query.Spec) (*taxii.Envelope, taxii.DateRange, error) {
	if err := s.checkCollection(ctx, spec); err != nil {
		return nil, taxii.DateRange{}, err
	}
	selected, err := s.stream(ctx, spec)
	if err != nil {
		return nil, taxii.DateRange{}, err
	}
	page, err := pagination.Paginate(selected, spec.Limit, spec.Next)
	if err != nil {
		return nil, taxii.DateRange{}, s.pageError(err)
	}
	s.served("objects", len(page.Items))
	env, dates := taxii.ToEnvelope(page)
	return env, dates, nil
}

// Manifest returns one page of manifest records.
func (s *ObjectService) Manifest(ctx context.Context, spec *query.Spec) (*taxii.Manifest, taxii.DateRange, error) {
	if err := s.checkCollection(ctx, spec); err != nil {
		return nil, taxii.DateRange{}, err
	}
	candidates, err := s.repomanager.Objects().List(ctx, spec.CollectionID, spec.ObjectID)
	if err != nil {
		return nil, taxii.DateRange{}, err
	}
	selected, err := s.pipeline.Filter(candidates, spec)
	if err != nil {
		return nil, taxii.DateRange{}, err
	}
	page, err := pagination.NewChain(selected, spec.Limit).Page(spec.Next)
	if err != nil {
		return nil, taxii.DateRange{}, s.pageError(err)
	}
	s.served("manifest", len(page.Items))
	m, dates := taxii.ToManifest(page)
	return m, dates, nil
}

// Versions returns one page of the version identifiers of spec.ObjectID.
// Every version is listed regardless of match[version].
func (s *ObjectService) Versions(ctx context.Context, spec *query.Spec) (*taxii.Versions, taxii.DateRange, error) {
	if spec.ObjectID == "" {
		return nil, taxii.DateRange{}, fmt.Errorf("versions without object id: %w", common.ErrInvalidArgument)
	}
	all := *spec
	all.Match.Version = []string{query.VersionAll}

	if err := s.checkCollection(ctx, &all); err != nil {
		return nil, taxii.DateRange{}, err
	}
	selected, err := s.stream(ctx, &all)
	if err != nil {
		return nil, taxii.DateRange{}, err
	}
	page, err := pagination.Paginate(selected, all.Limit, all.Next)
	if err != nil {
		return nil, taxii.DateRange{}, s.pageError(err)
	}
	s.served("versions", len(page.Items))
	v, dates := taxii.ToVersionList(page)
	return v, dates, nil
}
