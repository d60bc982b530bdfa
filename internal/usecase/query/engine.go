package query

import (
	"cmp"
	"context"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	"github.com/kailas-cloud/stationview/internal/domain/value"
	"github.com/kailas-cloud/stationview/internal/logger"
)

// Engine filters, sorts and paginates normalized records.
type Engine struct {
	locale language.Tag
}

// New creates an Engine that compares strings with the root collation.
func New() *Engine {
	return &Engine{locale: language.Und}
}

// WithLocale sets the collation locale used for string ordering.
func (e *Engine) WithLocale(tag language.Tag) *Engine {
	e.locale = tag
	return e
}

// Run applies filter, sort and pagination in that order.
func (e *Engine) Run(ctx context.Context, records []dataset.Record, q domquery.Query) domquery.Result {
	filtered := e.Filter(ctx, records, q.Where)
	sorted := e.Sort(filtered, q.Order)
	return e.Paginate(sorted, q.Page)
}

// Filter keeps the records satisfying every term of every condition.
// Unsupported operators are logged once per request and never match.
func (e *Engine) Filter(ctx context.Context, records []dataset.Record, where domquery.Where) []dataset.Record {
	if len(where) == 0 {
		return records
	}

	log := logger.FromContext(ctx)
	for _, c := range where {
		for _, t := range c.Terms {
			if !t.Op.Known() {
				log.Warn("unsupported filter operator",
					zap.String("operator", string(t.Op)),
					zap.String("field", c.Field),
				)
			}
		}
	}

	out := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, where) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec dataset.Record, where domquery.Where) bool {
	for _, c := range where {
		stored := rec.Get(c.Field)
		for _, t := range c.Terms {
			if !evaluate(stored, t) {
				return false
			}
		}
	}
	return true
}

func evaluate(stored value.Value, t domquery.Term) bool {
	switch t.Op {
	case domquery.Eq:
		return stored.Equal(t.Operand)
	case domquery.Not:
		return !stored.Equal(t.Operand)
	case domquery.Lt, domquery.Gt:
		n, ok := stored.AsNumber()
		if !ok {
			return false
		}
		operand, ok := numericOperand(t.Operand)
		if !ok {
			return false
		}
		if t.Op == domquery.Lt {
			return n < operand
		}
		return n > operand
	default:
		return false
	}
}

// numericOperand accepts numbers and numeric strings.
func numericOperand(v value.Value) (float64, bool) {
	if n, ok := v.AsNumber(); ok {
		return n, true
	}
	if s, ok := v.AsString(); ok {
		return value.ParseNumber(s)
	}
	return 0, false
}

// Sort returns a sorted copy, or records unchanged when order is nil.
// Pairs involving an absent value compare equal, so their placement is
// whatever the stable sort leaves.
func (e *Engine) Sort(records []dataset.Record, order *domquery.Order) []dataset.Record {
	if order == nil {
		return records
	}

	// Collators keep internal buffers; one per call.
	col := collate.New(e.locale)
	field := order.Field()
	desc := order.Direction() == domquery.Desc

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b dataset.Record) int {
		c := compareValues(col, a.Get(field), b.Get(field))
		if desc {
			return -c
		}
		return c
	})
	return out
}

func compareValues(col *collate.Collator, a, b value.Value) int {
	if a.IsAbsent() || b.IsAbsent() {
		return 0
	}
	an, aNum := a.AsNumber()
	bn, bNum := b.AsNumber()
	if aNum && bNum {
		return cmp.Compare(an, bn)
	}
	return col.CompareString(a.String(), b.String())
}

// Paginate slices one page out of records. Out-of-range pages are empty.
func (e *Engine) Paginate(records []dataset.Record, page domquery.Page) domquery.Result {
	total := len(records)
	pagination := domquery.Pagination{
		Page:         page.Number(),
		PageSize:     page.Size(),
		TotalRecords: total,
	}
	if total == 0 {
		return domquery.Result{Data: []dataset.Record{}, Pagination: pagination}
	}

	start := total
	if page.Number()-1 <= (total-1)/page.Size() {
		start = page.Offset()
	}
	end := min(start+page.Size(), total)
	pagination.TotalPages = (total-1)/page.Size() + 1

	return domquery.Result{
		Data:       slices.Clone(records[start:end]),
		Pagination: pagination,
	}
}
