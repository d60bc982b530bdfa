package schema

import (
	"context"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
)

// Source fetches the current raw dataset.
type Source interface {
	FetchAll(ctx context.Context) ([]dataset.Raw, error)
}
