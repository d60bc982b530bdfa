package query

import (
	"strings"
	"testing"
)

func TestNewOrder(t *testing.T) {
	o, err := NewOrder("availableBikes", Desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Field() != "availableBikes" || o.Direction() != Desc {
		t.Errorf("got %+v", o)
	}

	if _, err := NewOrder("", Asc); err == nil || !strings.Contains(err.Error(), "field") {
		t.Errorf("expected field error, got %v", err)
	}
	if _, err := NewOrder("x", "up"); err == nil || !strings.Contains(err.Error(), "direction") {
		t.Errorf("expected direction error, got %v", err)
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name         string
		number, size int
		wantErr      string
	}{
		{"valid", 2, 5, ""},
		{"zero page", 0, 5, "page must be"},
		{"negative size", 1, -1, "page size must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPage(tt.number, tt.size)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Offset() != 5 {
				t.Errorf("offset = %d, want 5", p.Offset())
			}
		})
	}
}

func TestDefaultPageRequest(t *testing.T) {
	p := DefaultPageRequest()
	if p.Number() != 1 || p.Size() != 10 || p.Offset() != 0 {
		t.Errorf("got %+v", p)
	}
}

func TestOperator_Known(t *testing.T) {
	for _, op := range []Operator{Eq, Lt, Gt, Not} {
		if !op.Known() {
			t.Errorf("%s should be known", op)
		}
	}
	if Operator("gte").Known() {
		t.Error("gte should be unknown")
	}
}
