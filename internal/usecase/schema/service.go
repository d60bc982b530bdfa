package schema

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stationview/internal/domain"
	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	domschema "github.com/kailas-cloud/stationview/internal/domain/schema"
	"github.com/kailas-cloud/stationview/internal/domain/value"
	"github.com/kailas-cloud/stationview/internal/logger"
	"github.com/kailas-cloud/stationview/internal/metrics"
)

// Service derives a schema from the live dataset on every call.
type Service struct {
	source     Source
	classifier domschema.Classifier
}

// New creates a Service.
func New(source Source, classifier domschema.Classifier) *Service {
	return &Service{source: source, classifier: classifier}
}

// Derive fetches the dataset and infers one field per key seen in any record.
// An empty dataset yields an empty schema and no error.
func (s *Service) Derive(ctx context.Context) ([]domschema.Field, error) {
	raws, err := s.source.FetchAll(ctx)
	if err != nil {
		metrics.SchemaDerivationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaDerivation, err)
	}

	fields := s.FromRecords(ctx, raws)
	if len(fields) == 0 {
		metrics.SchemaDerivationsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.SchemaDerivationsTotal.WithLabelValues("ok").Inc()
	}
	observeFields(fields)
	return fields, nil
}

// FromRecords infers the schema of an already fetched dataset.
func (s *Service) FromRecords(ctx context.Context, raws []dataset.Raw) []domschema.Field {
	log := logger.FromContext(ctx)
	if len(raws) == 0 {
		log.Warn("upstream dataset is empty, schema is empty")
		return []domschema.Field{}
	}

	keys := keyUnion(raws)
	fields := make([]domschema.Field, 0, len(keys))
	for _, key := range keys {
		values := presentValues(raws, key)
		if len(values) == 0 {
			log.Warn("field has no non-null values, defaulting to TEXT", zap.String("field", key))
			fields = append(fields, domschema.NewField(key, domschema.Text, nil))
			continue
		}

		ft := s.classifier.Classify(values)
		var options []string
		if ft == domschema.Option {
			options = optionLabels(values)
		}
		fields = append(fields, domschema.NewField(key, ft, options))
	}
	return fields
}

// keyUnion returns every key of every record, in first-seen order.
func keyUnion(raws []dataset.Raw) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, r := range raws {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// presentValues collects the normalized non-null values of key, in record order.
func presentValues(raws []dataset.Raw, key string) []value.Value {
	out := make([]value.Value, 0, len(raws))
	for _, r := range raws {
		v := r.Get(key)
		if !v.IsPresent() {
			continue
		}
		out = append(out, value.Normalize(v))
	}
	return out
}

func optionLabels(values []value.Value) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, v := range domschema.Distinct(values) {
		label := v.String()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

func observeFields(fields []domschema.Field) {
	counts := map[domschema.Type]int{
		domschema.Boolean: 0,
		domschema.Integer: 0,
		domschema.Float:   0,
		domschema.Date:    0,
		domschema.Option:  0,
		domschema.Text:    0,
	}
	for _, f := range fields {
		counts[f.FieldType()]++
	}
	for t, n := range counts {
		metrics.SchemaFields.WithLabelValues(string(t)).Set(float64(n))
	}
}
