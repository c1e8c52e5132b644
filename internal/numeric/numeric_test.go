package numeric

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClean(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1234", "1234"},
		{"12,5", "12,5"},
		{"12.5", "12,5"},
		{"Rp 11.500", "11,500"},
		{"1,234,567", "1,234"},
		{"12,34567", "12,345"},
		{"abc", ""},
		{"", ""},
		{"12a3,4b5", "123,45"},
		{"-50", "50"},
		{"5,", "5"},
		{",", ""},
		{",5", ",5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{"1234", "12,5", "Rp 11.500", "1,234,567", "abc", "", ",5", "12,34567"}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1234", "1234"},
		{"12,5", "12.5"},
		{"12.5", "12.5"},
		{"Rp 11.500", "11.5"},
		{"abc", "0"},
		{"", "0"},
		{",", "0"},
		{",5", "0.5"},
		{"100,125", "100.125"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Parse(tt.input)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("Parse(%q): got %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"number", `1150000`, "1150000"},
		{"decimal number", `12.5`, "12.5"},
		{"string comma", `"12,5"`, "12.5"},
		{"string with noise", `"Rp 500.000"`, "500"},
		{"null", `null`, "0"},
		{"empty string", `""`, "0"},
		{"negative number clamps", `-10`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.input), &a); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.input, err)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !a.Decimal.Equal(want) {
				t.Errorf("Amount(%s): got %s, want %s", tt.input, a.Decimal, want)
			}
		})
	}
}

func TestAmountMarshalJSON(t *testing.T) {
	a := NewAmount(decimal.RequireFromString("650000"))
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "650000" {
		t.Errorf("marshal: got %s, want 650000", b)
	}
}
