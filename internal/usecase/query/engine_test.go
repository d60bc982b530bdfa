package query

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	"github.com/kailas-cloud/stationview/internal/domain/schema"
	"github.com/kailas-cloud/stationview/internal/domain/value"
	"github.com/kailas-cloud/stationview/internal/fixture"
	"github.com/kailas-cloud/stationview/internal/logger"
)

// --- Helpers ---

func stationRecords(t *testing.T) []dataset.Record {
	t.Helper()
	raws, err := fixture.Stations()
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	fields := []schema.Field{
		schema.NewField("id", schema.Integer, nil),
		schema.NewField("name", schema.Text, nil),
		schema.NewField("Available Bikes", schema.Integer, nil),
		schema.NewField("status", schema.Option, []string{"OPEN", "CLOSED", "MAINTENANCE"}),
	}
	return dataset.Normalize(raws, fields)
}

func ids(t *testing.T, recs []dataset.Record) []int {
	t.Helper()
	out := make([]int, len(recs))
	for i, r := range recs {
		n, ok := r.Get("id").AsNumber()
		if !ok {
			t.Fatalf("record %d has no numeric id", i)
		}
		out[i] = int(n)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func record(id float64, field string, v value.Value) dataset.Record {
	r := dataset.NewRecord()
	r.Set("id", value.Number(id))
	r.Set(field, v)
	return r
}

func where(field string, op domquery.Operator, operand value.Value) domquery.Where {
	return domquery.Where{{Field: field, Terms: []domquery.Term{{Op: op, Operand: operand}}}}
}

func order(t *testing.T, field string, dir domquery.Direction) *domquery.Order {
	t.Helper()
	o, err := domquery.NewOrder(field, dir)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	return &o
}

func page(t *testing.T, number, size int) domquery.Page {
	t.Helper()
	p, err := domquery.NewPage(number, size)
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return p
}

// --- Filter ---

func TestFilter_GreaterThan(t *testing.T) {
	e := New()
	got := e.Filter(context.Background(), stationRecords(t), where("availableBikes", domquery.Gt, value.Number(10)))

	if len(got) != 11 {
		t.Fatalf("expected 11 stations with more than 10 bikes, got %d", len(got))
	}
	for _, r := range got {
		n, _ := r.Get("availableBikes").AsNumber()
		if n <= 10 {
			t.Errorf("station %v has %v bikes", r.Get("id"), n)
		}
	}
}

func TestFilter_Operators(t *testing.T) {
	recs := stationRecords(t)

	tests := []struct {
		name  string
		where domquery.Where
		want  int
	}{
		{"empty where keeps all", nil, 20},
		{"eq string", where("status", domquery.Eq, value.String("OPEN")), 10},
		{"not string", where("status", domquery.Not, value.String("OPEN")), 10},
		{"eq number", where("id", domquery.Eq, value.Number(7)), 1},
		{"eq is strict", where("id", domquery.Eq, value.String("7")), 0},
		{"lt number", where("availableBikes", domquery.Lt, value.Number(5)), 3},
		{"lt on text field", where("name", domquery.Lt, value.Number(5)), 0},
		{"gt numeric string operand", where("availableBikes", domquery.Gt, value.String("19")), 2},
		{"unknown field eq", where("missing", domquery.Eq, value.Number(1)), 0},
		{"unknown field not", where("missing", domquery.Not, value.Number(1)), 20},
		{
			"terms combine with AND",
			domquery.Where{{Field: "availableBikes", Terms: []domquery.Term{
				{Op: domquery.Gt, Operand: value.Number(5)},
				{Op: domquery.Lt, Operand: value.Number(10)},
			}}},
			4,
		},
		{
			"fields combine with AND",
			domquery.Where{
				{Field: "status", Terms: []domquery.Term{{Op: domquery.Eq, Operand: value.String("CLOSED")}}},
				{Field: "availableBikes", Terms: []domquery.Term{{Op: domquery.Gt, Operand: value.Number(10)}}},
			},
			3,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Filter(context.Background(), recs, tt.where)
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilter_UnknownOperatorFailsClosed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	got := New().Filter(ctx, stationRecords(t), where("availableBikes", "gte", value.Number(0)))
	if len(got) != 0 {
		t.Errorf("unknown operator must exclude every record, got %d", len(got))
	}

	entries := logs.FilterMessage("unsupported filter operator").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if op := entries[0].ContextMap()["operator"]; op != "gte" {
		t.Errorf("operator field = %v", op)
	}
}

// --- Sort ---

func TestSort_NoOrderKeepsFetchOrder(t *testing.T) {
	recs := stationRecords(t)
	got := New().Sort(recs, nil)
	if !equalInts(ids(t, got), ids(t, recs)) {
		t.Error("order changed without an order")
	}
}

func TestSort_NumericAscending(t *testing.T) {
	got := New().Sort(stationRecords(t), order(t, "availableBikes", domquery.Asc))

	prev := math.Inf(-1)
	for _, r := range got {
		n, _ := r.Get("availableBikes").AsNumber()
		if n < prev {
			t.Fatalf("not non-decreasing: %v after %v", n, prev)
		}
		prev = n
	}
}

func TestSort_NumericDescending(t *testing.T) {
	got := New().Sort(stationRecords(t), order(t, "availableBikes", domquery.Desc))

	prev := math.Inf(1)
	for _, r := range got {
		n, _ := r.Get("availableBikes").AsNumber()
		if n > prev {
			t.Fatalf("not non-increasing: %v after %v", n, prev)
		}
		prev = n
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	recs := stationRecords(t)
	before := ids(t, recs)
	_ = New().Sort(recs, order(t, "availableBikes", domquery.Desc))
	if !equalInts(ids(t, recs), before) {
		t.Error("input slice was reordered")
	}
}

func TestSort_LocaleAwareStrings(t *testing.T) {
	recs := []dataset.Record{
		record(1, "name", value.String("cherry")),
		record(2, "name", value.String("Banana")),
		record(3, "name", value.String("apple")),
	}

	got := New().Sort(recs, order(t, "name", domquery.Asc))
	if want := []int{3, 2, 1}; !equalInts(ids(t, got), want) {
		t.Errorf("asc ids = %v, want %v", ids(t, got), want)
	}

	got = New().Sort(recs, order(t, "name", domquery.Desc))
	if want := []int{1, 2, 3}; !equalInts(ids(t, got), want) {
		t.Errorf("desc ids = %v, want %v", ids(t, got), want)
	}
}

func TestSort_MixedKindsCompareAsStrings(t *testing.T) {
	recs := []dataset.Record{
		record(1, "v", value.String("b")),
		record(2, "v", value.Null()),
		record(3, "v", value.Number(5)),
	}

	// null renders as "", numbers render as digits; both sort before letters.
	got := New().Sort(recs, order(t, "v", domquery.Asc))
	if want := []int{2, 3, 1}; !equalInts(ids(t, got), want) {
		t.Errorf("ids = %v, want %v", ids(t, got), want)
	}
}

func TestSort_AllAbsentKeepsOrder(t *testing.T) {
	recs := stationRecords(t)
	got := New().Sort(recs, order(t, "missing", domquery.Asc))
	if !equalInts(ids(t, got), ids(t, recs)) {
		t.Error("all-absent sort must leave order unchanged")
	}
}

// --- Paginate ---

func TestPaginate_SecondPage(t *testing.T) {
	recs := stationRecords(t)
	res := New().Paginate(recs, page(t, 2, 5))

	if want := []int{6, 7, 8, 9, 10}; !equalInts(ids(t, res.Data), want) {
		t.Errorf("ids = %v, want %v", ids(t, res.Data), want)
	}
	want := domquery.Pagination{Page: 2, PageSize: 5, TotalRecords: 20, TotalPages: 4}
	if res.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", res.Pagination, want)
	}
}

func TestPaginate_OversizedPage(t *testing.T) {
	res := New().Paginate(stationRecords(t), page(t, 1, 50))
	if len(res.Data) != 20 {
		t.Errorf("expected all 20 records, got %d", len(res.Data))
	}
	if res.Pagination.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", res.Pagination.TotalPages)
	}
}

func TestPaginate_Empty(t *testing.T) {
	res := New().Paginate(nil, page(t, 3, 10))
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %v", res.Data)
	}
	want := domquery.Pagination{Page: 3, PageSize: 10, TotalRecords: 0, TotalPages: 0}
	if res.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", res.Pagination, want)
	}
}

func TestPaginate_PastTheEnd(t *testing.T) {
	res := New().Paginate(stationRecords(t), page(t, 9, 5))
	if len(res.Data) != 0 {
		t.Errorf("expected no records, got %d", len(res.Data))
	}
	if res.Pagination.TotalRecords != 20 || res.Pagination.TotalPages != 4 {
		t.Errorf("pagination = %+v", res.Pagination)
	}

	huge := New().Paginate(stationRecords(t), page(t, math.MaxInt/2, math.MaxInt/2))
	if len(huge.Data) != 0 {
		t.Errorf("expected no records for huge page, got %d", len(huge.Data))
	}
}

// --- Run ---

func TestRun_FilterSortPaginate(t *testing.T) {
	q := domquery.Query{
		Where: where("availableBikes", domquery.Gt, value.Number(10)),
		Order: order(t, "availableBikes", domquery.Asc),
		Page:  page(t, 1, 10),
	}

	res := New().Run(context.Background(), stationRecords(t), q)

	want := []int{10, 4, 11, 9, 2, 17, 15, 7, 14, 6}
	if got := ids(t, res.Data); !equalInts(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	wantPag := domquery.Pagination{Page: 1, PageSize: 10, TotalRecords: 11, TotalPages: 2}
	if res.Pagination != wantPag {
		t.Errorf("pagination = %+v, want %+v", res.Pagination, wantPag)
	}
}
