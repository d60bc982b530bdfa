package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/kailas-cloud/stationview/internal/domain"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	"github.com/kailas-cloud/stationview/internal/domain/value"
)

// errMalformedBody marks a body that is not a JSON object at all.
var errMalformedBody = errors.New("request body must be a JSON object")

// ValidationError lists every problem found in a request body.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d validation errors", len(e.Messages))
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

type rawObject = orderedmap.OrderedMap[string, json.RawMessage]

// dataRequestParser turns a POST /data body into a query, collecting messages.
type dataRequestParser struct {
	messages []string
}

func (p *dataRequestParser) fail(format string, args ...any) {
	p.messages = append(p.messages, fmt.Sprintf(format, args...))
}

// parseDataRequest reads and validates the body. An empty body is an empty object.
func parseDataRequest(body io.Reader, defaultPageSize int) (domquery.Query, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return domquery.Query{}, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	if !json.Valid(data) {
		return domquery.Query{}, errMalformedBody
	}
	if !isObject(data) {
		return domquery.Query{}, &ValidationError{Messages: []string{`"value" must be of type object`}}
	}

	top, err := decodeObject(data)
	if err != nil {
		return domquery.Query{}, fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	p := &dataRequestParser{}
	q := domquery.Query{}
	pageNumber, pageSize := domquery.DefaultPage, defaultPageSize

	for pair := top.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case "where":
			q.Where = p.where(pair.Value)
		case "orderBy":
			q.Order = p.orderBy(pair.Value)
		case "page":
			if n, ok := p.positiveInt("page", pair.Value); ok {
				pageNumber = n
			}
		case "pageSize":
			if n, ok := p.positiveInt("pageSize", pair.Value); ok {
				pageSize = n
			}
		default:
			p.fail("%q is not allowed", pair.Key)
		}
	}

	if len(p.messages) > 0 {
		return domquery.Query{}, &ValidationError{Messages: p.messages}
	}

	page, err := domquery.NewPage(pageNumber, pageSize)
	if err != nil {
		return domquery.Query{}, &ValidationError{Messages: []string{err.Error()}}
	}
	q.Page = page
	return q, nil
}

func (p *dataRequestParser) where(raw json.RawMessage) domquery.Where {
	if !isObject(raw) {
		p.fail(`"where" must be of type object`)
		return nil
	}
	fields, err := decodeObject(raw)
	if err != nil {
		p.fail(`"where" must be of type object`)
		return nil
	}

	where := make(domquery.Where, 0, fields.Len())
	for f := fields.Oldest(); f != nil; f = f.Next() {
		path := "where." + f.Key
		if !isObject(f.Value) {
			p.fail("%q must be of type object", path)
			continue
		}
		ops, err := decodeObject(f.Value)
		if err != nil {
			p.fail("%q must be of type object", path)
			continue
		}

		cond := domquery.Condition{Field: f.Key}
		for o := ops.Oldest(); o != nil; o = o.Next() {
			opPath := path + "." + o.Key
			op := domquery.Operator(o.Key)
			switch op {
			case domquery.Eq, domquery.Not:
				v, ok := scalar(o.Value)
				if !ok {
					p.fail("%q does not match any of the allowed types", opPath)
					continue
				}
				cond.Terms = append(cond.Terms, domquery.Term{Op: op, Operand: v})
			case domquery.Lt, domquery.Gt:
				n, ok := number(o.Value)
				if !ok {
					p.fail("%q must be a number", opPath)
					continue
				}
				cond.Terms = append(cond.Terms, domquery.Term{Op: op, Operand: value.Number(n)})
			default:
				p.fail("%q is not allowed", opPath)
			}
		}
		where = append(where, cond)
	}
	return where
}

func (p *dataRequestParser) orderBy(raw json.RawMessage) *domquery.Order {
	if !isObject(raw) {
		p.fail(`"orderBy" must be of type object`)
		return nil
	}
	obj, err := decodeObject(raw)
	if err != nil {
		p.fail(`"orderBy" must be of type object`)
		return nil
	}

	var (
		field, direction string
		valid            = true
	)
	if v, ok := obj.Get("field"); !ok {
		p.fail(`"orderBy.field" is required`)
		valid = false
	} else if err := json.Unmarshal(v, &field); err != nil || field == "" {
		p.fail(`"orderBy.field" must be a non-empty string`)
		valid = false
	}
	if v, ok := obj.Get("direction"); !ok {
		p.fail(`"orderBy.direction" is required`)
		valid = false
	} else if err := json.Unmarshal(v, &direction); err != nil ||
		(direction != string(domquery.Asc) && direction != string(domquery.Desc)) {
		p.fail(`"orderBy.direction" must be one of [asc, desc]`)
		valid = false
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != "field" && pair.Key != "direction" {
			p.fail("%q is not allowed", "orderBy."+pair.Key)
			valid = false
		}
	}
	if !valid {
		return nil
	}

	order, err := domquery.NewOrder(field, domquery.Direction(direction))
	if err != nil {
		p.fail("%s", err.Error())
		return nil
	}
	return &order
}

func (p *dataRequestParser) positiveInt(name string, raw json.RawMessage) (int, bool) {
	n, ok := number(raw)
	switch {
	case !ok:
		p.fail("%q must be a number", name)
	case n != math.Trunc(n) || n > math.MaxInt32:
		p.fail("%q must be an integer", name)
	case n < 1:
		p.fail("%q must be greater than or equal to 1", name)
	default:
		return int(n), true
	}
	return 0, false
}

func decodeObject(raw json.RawMessage) (*rawObject, error) {
	obj := orderedmap.New[string, json.RawMessage]()
	if err := obj.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return obj, nil
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// scalar accepts a JSON string, number or boolean.
func scalar(raw json.RawMessage) (value.Value, bool) {
	var v value.Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return value.Value{}, false
	}
	switch v.Kind() {
	case value.KindString:
		// arrays and objects decode to their JSON text; reject them here
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '"' {
			return value.Value{}, false
		}
		return v, true
	case value.KindNumber, value.KindBool:
		return v, true
	default:
		return value.Value{}, false
	}
}

func number(raw json.RawMessage) (float64, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
