package client

import (
	"context"
	"errors"
)

type dataRequest struct {
	Where    map[string]map[string]any `json:"where,omitempty"`
	OrderBy  *orderBy                  `json:"orderBy,omitempty"`
	Page     int                       `json:"page,omitempty"`
	PageSize int                       `json:"pageSize,omitempty"`
}

type orderBy struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// QueryBuilder is a fluent builder for POST /data.
// Conditions on the same field are combined with AND, as are different fields.
type QueryBuilder struct {
	client *Client
	req    dataRequest
	err    error
}

// Eq keeps records whose field strictly equals v (string, number or bool).
func (b *QueryBuilder) Eq(field string, v any) *QueryBuilder {
	return b.scalar(field, "eq", v)
}

// Not keeps records whose field differs from v (string, number or bool).
func (b *QueryBuilder) Not(field string, v any) *QueryBuilder {
	return b.scalar(field, "not", v)
}

// Lt keeps records whose numeric field is less than n.
func (b *QueryBuilder) Lt(field string, n float64) *QueryBuilder {
	return b.term(field, "lt", n)
}

// Gt keeps records whose numeric field is greater than n.
func (b *QueryBuilder) Gt(field string, n float64) *QueryBuilder {
	return b.term(field, "gt", n)
}

// OrderBy sorts the results.
func (b *QueryBuilder) OrderBy(field string, dir Direction) *QueryBuilder {
	b.req.OrderBy = &orderBy{Field: field, Direction: dir}
	return b
}

// Page sets the 1-based page number.
func (b *QueryBuilder) Page(n int) *QueryBuilder {
	b.req.Page = n
	return b
}

// PageSize sets the number of records per page.
func (b *QueryBuilder) PageSize(n int) *QueryBuilder {
	b.req.PageSize = n
	return b
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) (*Page, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.client.fetch(ctx, b.req)
}

func (b *QueryBuilder) scalar(field, op string, v any) *QueryBuilder {
	switch v.(type) {
	case string, bool, int, int32, int64, float32, float64:
		return b.term(field, op, v)
	default:
		if b.err == nil {
			b.err = errors.New("stationview: " + op + " on " + field + " needs a string, number or bool")
		}
		return b
	}
}

func (b *QueryBuilder) term(field, op string, v any) *QueryBuilder {
	if b.req.Where == nil {
		b.req.Where = make(map[string]map[string]any)
	}
	if b.req.Where[field] == nil {
		b.req.Where[field] = make(map[string]any)
	}
	b.req.Where[field][op] = v
	return b
}
