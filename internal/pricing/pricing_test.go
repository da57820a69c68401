package pricing

import (
	"math"
	"testing"
)

func TestDisplay(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"abc", ""},
		{"1000", "1.000"},
		{"$ 1,000,000", "1.000.000"},
		{"1.234.567", "1.234.567"},
		{"999", "999"},
	}
	for _, tt := range tests {
		if got := Display(tt.in); got != tt.want {
			t.Errorf("Display(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"1.000.000", 1000000},
		{"1.500,50", 1500.5},
		{"1200", 1200},
		{"junk", 0},
		{"1e400", 0},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestAutoFillUSD(t *testing.T) {
	got := AutoFill(Pair{}, FieldUSD, "1000", 1000)
	if got.ARS != "1.000.000" || got.USD != "1.000" {
		t.Fatalf("got %+v", got)
	}
}

func TestAutoFillARS(t *testing.T) {
	got := AutoFill(Pair{}, FieldARS, "1.234.567", 1000)
	if got.USD != "1.235" || got.ARS != "1.234.567" {
		t.Fatalf("got %+v", got)
	}
}

func TestAutoFillLeavesOtherSide(t *testing.T) {
	cur := Pair{ARS: "5.000", USD: "5"}
	if got := AutoFill(cur, FieldUSD, "", 1000); got.ARS != "5.000" || got.USD != "" {
		t.Fatalf("empty input: %+v", got)
	}
	if got := AutoFill(cur, FieldARS, "7000", 0); got.USD != "5" || got.ARS != "7.000" {
		t.Fatalf("zero rate: %+v", got)
	}
	if got := AutoFill(cur, "name", "1", 1000); got != cur {
		t.Fatalf("unknown field: %+v", got)
	}
}

func TestComplete(t *testing.T) {
	ars, usd := Complete(0, 1000, 1000)
	if ars != 1000000 || usd != 1000 {
		t.Fatalf("usd only: %v %v", ars, usd)
	}
	ars, usd = Complete(1500, 0, 1000)
	if ars != 1500 || usd != 2 {
		t.Fatalf("ars only: %v %v", ars, usd)
	}
	ars, usd = Complete(10, 20, 1000)
	if ars != 10 || usd != 20 {
		t.Fatal("both set must be kept independent")
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1185.5", 1185.5, true},
		{"1.185,5", 1185.5, true},
		{"1185,5", 1185.5, true},
		{"1.000.000", 1000000, true},
		{" 65000 ", 65000, true},
		{"1.001", 1.001, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"Infinity", 0, false},
		{"inf", 0, false},
		{"NaN", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRate(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseRate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCompleteIgnoresNonFinite(t *testing.T) {
	ars, usd := Complete(math.Inf(1), 0, 1000)
	if !math.IsInf(ars, 1) || usd != 0 {
		t.Fatalf("got %v %v", ars, usd)
	}
	if ars, usd = Complete(0, 1000, math.NaN()); ars != 0 || usd != 1000 {
		t.Fatalf("nan rate: got %v %v", ars, usd)
	}
}
