package chi

import (
	"context"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	domschema "github.com/kailas-cloud/stationview/internal/domain/schema"
	healthuc "github.com/kailas-cloud/stationview/internal/usecase/health"
)

// SchemaService derives the current schema.
type SchemaService interface {
	Derive(ctx context.Context) ([]domschema.Field, error)
}

// StationService answers data queries and id lookups.
type StationService interface {
	FetchFilteredData(ctx context.Context, q domquery.Query) (domquery.Result, error)
	FetchStationByID(ctx context.Context, id int) (dataset.Record, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
