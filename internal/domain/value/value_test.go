package value

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{"true lower", String("true"), Bool(true)},
		{"false mixed case", String("FaLsE"), Bool(false)},
		{"integer string", String("42"), Number(42)},
		{"float string", String("3.5"), Number(3.5)},
		{"float with zero fraction", String("3.0"), Number(3)},
		{"negative with spaces", String("  -7 "), Number(-7)},
		{"exponent", String("1e3"), Number(1000)},
		{"date only", String("2024-03-01"), String("2024-03-01T00:00:00.000Z")},
		{"datetime no zone", String("2024-03-01 10:15:30"), String("2024-03-01T10:15:30.000Z")},
		{"rfc3339 with offset", String("2024-03-01T10:15:30+02:00"), String("2024-03-01T08:15:30.000Z")},
		{"minute precision", String("2024-01-15T10:00"), String("2024-01-15T10:00:00.000Z")},
		{"minute precision utc", String("2024-01-15T10:00Z"), String("2024-01-15T10:00:00.000Z")},
		{"minute precision offset", String("2024-01-15T10:00+01:00"), String("2024-01-15T09:00:00.000Z")},
		{"minute precision space", String("2024-01-15 10:00"), String("2024-01-15T10:00:00.000Z")},
		{"year and month", String("2024-01"), String("2024-01-01T00:00:00.000Z")},
		{"plain text", String("OPEN"), String("OPEN")},
		{"empty string", String(""), String("")},
		{"infinity stays text", String("Infinity"), String("Infinity")},
		{"hex float stays text", String("0x1p4"), String("0x1p4")},
		{"underscored digits stay text", String("1_000"), String("1_000")},
		{"number passthrough", Number(7), Number(7)},
		{"bool passthrough", Bool(true), Bool(true)},
		{"null passthrough", Null(), Null()},
		{"absent passthrough", Absent(), Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Normalize(%v) = %v (%s), want %v (%s)",
					tt.in, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []Value{
		String("12"), String("12.25"), String("TRUE"), String("false"),
		String("2024-01-31"), String("2024-01-31T23:59:59Z"), String("Fri, 02 Feb 2024 10:00:00 GMT"),
		String("2024-01-15T10:00"), String("2024-01-15T10:00Z"), String("2024-01-15T10:00+01:00"),
		String("2024-01"),
		String("Smithfield North"), String(""), Number(3), Number(0.5),
		Bool(false), Null(), Absent(),
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if !once.Equal(twice) {
			t.Errorf("not idempotent for %q: once=%v twice=%v", in.String(), once, twice)
		}
	}
}

func TestValue_Equal(t *testing.T) {
	if Number(10).Equal(String("10")) {
		t.Error("number and string must not be equal")
	}
	if !Null().Equal(Null()) {
		t.Error("null must equal null")
	}
	if Null().Equal(Absent()) {
		t.Error("null must not equal absent")
	}
	if !String("a").Equal(String("a")) {
		t.Error("equal strings")
	}
}

func TestValue_IsInteger(t *testing.T) {
	if !Number(3).IsInteger() {
		t.Error("3 is integral")
	}
	if Number(3.25).IsInteger() {
		t.Error("3.25 is not integral")
	}
	if String("3").IsInteger() {
		t.Error("string is not integral")
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Number(3), "3"},
		{Number(1.5), "1.5"},
		{Number(-0.25), "-0.25"},
		{Bool(true), "true"},
		{String("x"), "x"},
		{Null(), ""},
		{Absent(), ""},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValue_JSON(t *testing.T) {
	var vals []Value
	if err := json.Unmarshal([]byte(`[1, 2.5, "a", true, null, {"b": 1}, [1, 2]]`), &vals); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []Value{Number(1), Number(2.5), String("a"), Bool(true), Null(), String(`{"b":1}`), String("[1,2]")}
	if len(vals) != len(want) {
		t.Fatalf("got %d values, want %d", len(vals), len(want))
	}
	for i := range want {
		if !vals[i].Equal(want[i]) {
			t.Errorf("vals[%d] = %v (%s), want %v", i, vals[i], vals[i].Kind(), want[i])
		}
	}

	out, err := json.Marshal([]Value{Number(3), Bool(false), Null(), Absent(), String("x")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `[3,false,null,null,"x"]` {
		t.Errorf("marshal = %s", out)
	}
}
