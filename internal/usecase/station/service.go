package station

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/stationview/internal/domain"
	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	domschema "github.com/kailas-cloud/stationview/internal/domain/schema"
	"github.com/kailas-cloud/stationview/internal/logger"
)

// idKey is the raw field holding the station identifier.
const idKey = "id"

// Service answers station queries over freshly fetched data.
type Service struct {
	source  Source
	deriver SchemaDeriver
	engine  QueryRunner
}

// New creates a Service.
func New(source Source, deriver SchemaDeriver, engine QueryRunner) *Service {
	return &Service{source: source, deriver: deriver, engine: engine}
}

// FetchFilteredData returns one page of normalized records matching q.
func (s *Service) FetchFilteredData(ctx context.Context, q domquery.Query) (domquery.Result, error) {
	raws, fields, err := s.load(ctx)
	if err != nil {
		return domquery.Result{}, err
	}
	if len(fields) == 0 {
		return domquery.Result{}, domain.ErrEmptySchema
	}

	records := dataset.Normalize(raws, fields)
	res := s.engine.Run(ctx, records, q)

	logger.FromContext(ctx).Debug("query served",
		zap.Int("fetched", len(raws)),
		zap.Int("matched", res.Pagination.TotalRecords),
		zap.Int("returned", len(res.Data)),
	)
	return res, nil
}

// FetchStationByID returns the normalized record whose raw id equals id.
func (s *Service) FetchStationByID(ctx context.Context, id int) (dataset.Record, error) {
	raws, fields, err := s.load(ctx)
	if err != nil {
		return dataset.Record{}, err
	}

	for _, raw := range raws {
		n, ok := raw.Get(idKey).AsNumber()
		if !ok || n != float64(id) {
			continue
		}
		return dataset.Normalize([]dataset.Raw{raw}, fields)[0], nil
	}
	return dataset.Record{}, fmt.Errorf("station %d: %w", id, domain.ErrNotFound)
}

// load fetches the raw dataset and derives the schema concurrently.
func (s *Service) load(ctx context.Context) ([]dataset.Raw, []domschema.Field, error) {
	var (
		raws   []dataset.Raw
		fields []domschema.Field
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raws, err = s.source.FetchAll(gctx)
		if err != nil {
			return fmt.Errorf("fetch dataset: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fields, err = s.deriver.Derive(gctx)
		if err != nil {
			return fmt.Errorf("derive schema: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err //nolint:wrapcheck // wrapped inside the group
	}
	return raws, fields, nil
}
