package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/taxiikeeper/internal/logging"
	sc "github.com/dmitrijs2005/taxiikeeper/internal/server/config"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
	"github.com/google/uuid"
)

// BundleStore is the part of the S3 API hydration reads bundles through.
type BundleStore interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) BundleStore {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// HydrationResult summarises one hydration run.
type HydrationResult struct {
	Bundles int
	Objects int
	Failed  int
}

// HydrationService copies STIX bundles from object storage into the store.
// Every *.json object under the configured prefix is read as one bundle and
// written in a single transaction.
type HydrationService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	metrics     *metrics.Metrics
	store       BundleStore
	now         func() time.Time
}

func NewHydrationService(repomanager repomanager.RepositoryManager, config *sc.Config, logger logging.Logger, m *metrics.Metrics) *HydrationService {
	return &HydrationService{
		repomanager: repomanager,
		config:      config,
		logger:      logger.With("module", "hydration"),
		metrics:     m,
		now:         time.Now,
	}
}

// Enabled reports whether a bucket is configured.
func (s *HydrationService) Enabled() bool {
	return s.config.S3Bucket != ""
}

func (s *HydrationService) getStore(ctx context.Context) (BundleStore, error) {
	if s.store != nil {
		return s.store, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	s.store = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s.store, nil
}

// Run hydrates once and then every HydrationInterval until ctx is done. A
// zero interval runs once. firstDone is called once, after the first run that
// stored at least one bundle or finished without errors; a disabled service
// calls it straight away. Failed runs are logged and retried on the next tick.
func (s *HydrationService) Run(ctx context.Context, firstDone func()) error {
	if !s.Enabled() {
		s.logger.Info(ctx, "Hydration disabled, no bucket configured")
		if firstDone != nil {
			firstDone()
		}
		return nil
	}

	ready := false
	markReady := func(ok bool) {
		if ok && !ready {
			ready = true
			if firstDone != nil {
				firstDone()
			}
		}
	}

	markReady(s.runAndRecord(ctx))

	if s.config.HydrationInterval <= 0 {
		if !ready {
			s.logger.Warn(ctx, "Hydration failed and will not be retried, store stays empty")
		}
		return nil
	}

	ticker := time.NewTicker(s.config.HydrationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			markReady(s.runAndRecord(ctx))
		}
	}
}

// runAndRecord reports whether the run left usable data behind.
func (s *HydrationService) runAndRecord(ctx context.Context) bool {
	started := s.now()
	res, err := s.RunOnce(ctx)
	if s.metrics != nil {
		s.metrics.RecordHydration(res.Objects, err, s.now())
	}
	if err != nil {
		s.logger.Error(ctx, "Hydration finished with errors", "error", err, "bundles", res.Bundles, "failed", res.Failed)
		return res.Bundles > 0
	}
	s.logger.Info(ctx, "Hydration finished", "bundles", res.Bundles, "objects", res.Objects, "took", s.now().Sub(started).String())
	return true
}

// RunOnce reads every bundle under the prefix. A bundle that fails is skipped
// and reported in the joined error; the others are still stored.
func (s *HydrationService) RunOnce(ctx context.Context) (HydrationResult, error) {
	var res HydrationResult

	store, err := s.getStore(ctx)
	if err != nil {
		return res, fmt.Errorf("s3 client: %w", err)
	}

	p := s3.NewListObjectsV2Paginator(store, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.S3Bucket),
		Prefix: aws.String(s.config.S3Prefix),
	})

	var errs []error
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return res, fmt.Errorf("list bundles: %w", err)
		}
		for _, item := range out.Contents {
			key := aws.ToString(item.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			n, err := s.hydrateKey(ctx, store, key)
			if err != nil {
				s.logger.Warn(ctx, "Skipping bundle", "key", key, "error", err)
				res.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			res.Bundles++
			res.Objects += n
		}
	}
	return res, errors.Join(errs...)
}

func (s *HydrationService) hydrateKey(ctx context.Context, store BundleStore, key string) (int, error) {
	out, err := store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return 0, err
	}
	return s.LoadBundle(ctx, key, data)
}

// LoadBundle stores the collection described by a bundle and all its objects.
// source names where the bundle came from and seeds the collection id when the
// bundle has no x-mitre-collection object.
func (s *HydrationService) LoadBundle(ctx context.Context, source string, data []byte) (int, error) {
	bundle, err := stix.DecodeBundle(data)
	if err != nil {
		return 0, err
	}
	collection := s.collectionFor(source, bundle)

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if err := repos.Collections.Upsert(ctx, collection); err != nil {
			return err
		}
		for _, obj := range bundle.Objects {
			if err := repos.Objects.Upsert(ctx, collection.ID, obj); err != nil {
				return fmt.Errorf("object %s: %w", obj.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug(ctx, "Bundle stored", "source", source, "collection", collection.ID, "objects", len(bundle.Objects))
	return len(bundle.Objects), nil
}

func (s *HydrationService) collectionFor(source string, bundle *stix.Bundle) *models.Collection {
	title := strings.TrimSuffix(path.Base(source), ".json")

	if info, ok := bundle.Collection(); ok {
		c := &models.Collection{
			ID:          strings.TrimPrefix(info.ID, stix.CollectionType+"--"),
			Title:       info.Name,
			Description: info.Description,
			Alias:       title,
			Source:      source,
		}
		if c.Title == "" {
			c.Title = title
		}
		return c
	}

	name := "s3://" + s.config.S3Bucket + "/" + source
	return &models.Collection{
		ID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String(),
		Title:  title,
		Alias:  title,
		Source: source,
	}
}
