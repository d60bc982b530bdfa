package schema

import (
	"fmt"

	"github.com/kailas-cloud/stationview/internal/domain/value"
)

// Default OPTION thresholds.
const (
	DefaultAbsoluteThreshold = 10
	DefaultRelativeThreshold = 0.2
)

// Thresholds bound the cardinality of an OPTION field.
type Thresholds struct {
	Absolute int     // max distinct values
	Relative float64 // max distinct/total ratio
}

// NewThresholds validates and creates Thresholds.
func NewThresholds(absolute int, relative float64) (Thresholds, error) {
	if absolute < 1 {
		return Thresholds{}, fmt.Errorf("absolute threshold must be >= 1, got %d", absolute)
	}
	if relative <= 0 || relative > 1 {
		return Thresholds{}, fmt.Errorf("relative threshold must be in (0, 1], got %v", relative)
	}
	return Thresholds{Absolute: absolute, Relative: relative}, nil
}

// DefaultThresholds returns the default OPTION thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Absolute: DefaultAbsoluteThreshold, Relative: DefaultRelativeThreshold}
}

// Classifier decides the semantic type of a field from its observed values.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier.
func NewClassifier(t Thresholds) Classifier {
	return Classifier{thresholds: t}
}

// Classify returns the type of a non-empty list of normalized, non-null values.
// The checks are ordered: integers are numbers, so INTEGER must be tried before FLOAT.
func (c Classifier) Classify(values []value.Value) Type {
	unique := Distinct(values)

	switch {
	case all(unique, isBool):
		return Boolean
	case all(unique, value.Value.IsInteger):
		return Integer
	case all(unique, isNumber):
		return Float
	case all(unique, isDateString):
		return Date
	}

	uniqueCount, total := len(unique), len(values)
	if total > 0 &&
		uniqueCount <= c.thresholds.Absolute &&
		float64(uniqueCount)/float64(total) <= c.thresholds.Relative {
		return Option
	}

	return Text
}

// Distinct returns the values without strict duplicates, in first-seen order.
func Distinct(values []value.Value) []value.Value {
	// Value is comparable and == matches Equal.
	seen := make(map[value.Value]struct{}, len(values))
	out := make([]value.Value, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func all(values []value.Value, pred func(value.Value) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isBool(v value.Value) bool {
	_, ok := v.AsBool()
	return ok
}

func isNumber(v value.Value) bool {
	_, ok := v.AsNumber()
	return ok
}

func isDateString(v value.Value) bool {
	s, ok := v.AsString()
	if !ok {
		return false
	}
	_, ok = value.ParseTime(s)
	return ok
}
