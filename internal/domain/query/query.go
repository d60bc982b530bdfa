// Package query holds the where/order/page value objects of a dataset query.
package query

import (
	"fmt"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	"github.com/kailas-cloud/stationview/internal/domain/value"
)

// Default paging.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Operator is a filter operator tag.
type Operator string

// Supported operators.
const (
	Eq  Operator = "eq"
	Lt  Operator = "lt"
	Gt  Operator = "gt"
	Not Operator = "not"
)

// Known reports whether the operator is supported.
func (o Operator) Known() bool {
	switch o {
	case Eq, Lt, Gt, Not:
		return true
	default:
		return false
	}
}

// Term is one operator applied to one operand.
type Term struct {
	Op      Operator
	Operand value.Value
}

// Condition is the set of terms constraining one field. All terms must hold.
type Condition struct {
	Field string
	Terms []Term
}

// Where is a conjunction of field conditions. Empty keeps everything.
type Where []Condition

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is a single sort key.
type Order struct {
	field     string
	direction Direction
}

// NewOrder validates and creates an Order.
func NewOrder(field string, dir Direction) (Order, error) {
	if field == "" {
		return Order{}, fmt.Errorf("order field is required")
	}
	if dir != Asc && dir != Desc {
		return Order{}, fmt.Errorf("order direction must be %q or %q, got %q", Asc, Desc, dir)
	}
	return Order{field: field, direction: dir}, nil
}

// Field returns the canonical field name to sort by.
func (o Order) Field() string { return o.field }

// Direction returns the sort direction.
func (o Order) Direction() Direction { return o.direction }

// Page is a 1-based page request.
type Page struct {
	number int
	size   int
}

// NewPage validates and creates a Page.
func NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, fmt.Errorf("page must be >= 1, got %d", number)
	}
	if size < 1 {
		return Page{}, fmt.Errorf("page size must be >= 1, got %d", size)
	}
	return Page{number: number, size: size}, nil
}

// DefaultPageRequest returns page 1 of DefaultPageSize.
func DefaultPageRequest() Page {
	return Page{number: DefaultPage, size: DefaultPageSize}
}

// Number returns the 1-based page number.
func (p Page) Number() int { return p.number }

// Size returns the page size.
func (p Page) Size() int { return p.size }

// Offset returns the index of the first record of the page.
func (p Page) Offset() int { return (p.number - 1) * p.size }

// Query is a complete dataset query: filter, then sort, then paginate.
type Query struct {
	Where Where
	Order *Order
	Page  Page
}

// Pagination describes the returned page.
type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
}

// Result is one page of records plus pagination metadata.
type Result struct {
	Data       []dataset.Record `json:"data"`
	Pagination Pagination       `json:"pagination"`
}
