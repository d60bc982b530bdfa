package station

import (
	"context"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	domschema "github.com/kailas-cloud/stationview/internal/domain/schema"
)

// Source fetches the current raw dataset.
type Source interface {
	FetchAll(ctx context.Context) ([]dataset.Raw, error)
}

// SchemaDeriver infers the schema of the current dataset.
type SchemaDeriver interface {
	Derive(ctx context.Context) ([]domschema.Field, error)
}

// QueryRunner filters, sorts and paginates normalized records.
type QueryRunner interface {
	Run(ctx context.Context, records []dataset.Record, q domquery.Query) domquery.Result
}
