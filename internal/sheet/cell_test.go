package sheet

import (
	"reflect"
	"testing"
)

func TestEncodeCell(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		formula string
		note    string
		want    any
	}{
		{"bare value", 42.0, "", "", 42.0},
		{"nil value", nil, "", "", nil},
		{"value with formula", 6.0, "=A1+A2", "", []any{6.0, "=A1+A2"}},
		{"value with note", "total", "", "checked", []any{"total", "", "checked"}},
		{"all three", 6.0, "=SUM(A1:A3)", "Q3", []any{6.0, "=SUM(A1:A3)", "Q3"}},
		{"formula without equals dropped", 6.0, "SUM(A1:A3)", "", 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeCell(tt.value, tt.formula, tt.note)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("EncodeCell(%v, %q, %q) = %#v, want %#v", tt.value, tt.formula, tt.note, got, tt.want)
			}
		})
	}
}

func TestCanonicalFormula(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"", ""},
		{"=SUM(A1:A3)", "=SUM(A1:A3)"},
		{"SUM(A1:A3)", "=SUM(A1:A3)"},
	}
	for _, tt := range tests {
		c := Cell{Formula: tt.formula}
		if got := c.CanonicalFormula(); got != tt.want {
			t.Fatalf("CanonicalFormula(%q) = %q, want %q", tt.formula, got, tt.want)
		}
	}
}

func TestCellIsEmpty(t *testing.T) {
	if !(Cell{}).IsEmpty() {
		t.Fatal("zero cell should be empty")
	}
	cells := []Cell{
		{Value: 0.0},
		{Formula: "=A1"},
		{Note: "n"},
		{CellStyles: &StyleSet{Bold: true}},
		{BorderStyles: &BorderSet{Top: &BorderEdge{Style: BorderSolid}}},
	}
	for i, c := range cells {
		if c.IsEmpty() {
			t.Fatalf("cell %d should not be empty", i)
		}
	}
}
