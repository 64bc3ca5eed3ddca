package addr

import "testing"

func TestTranslateFormula(t *testing.T) {
	tests := []struct {
		name     string
		formula  string
		rowDelta int
		colDelta int
		want     string
	}{
		{"row shift", "=B2", 1, 0, "=B3"},
		{"column shift", "=B2", 0, 2, "=D2"},
		{"both deltas", "=SUM(A1:A3)", 2, 1, "=SUM(B3:B5)"},
		{"zero delta unchanged", "=SUM(A1:A3)", 0, 0, "=SUM(A1:A3)"},
		{"row lock", "=B$2", 5, 0, "=B$2"},
		{"column lock", "=$B2", 5, 0, "=$B7"},
		{"column lock ignores column delta", "=$B2", 0, 5, "=$B2"},
		{"full lock", "=$B$2+C3", 1, 1, "=$B$2+D4"},
		{"string literal untouched", `=IF(A1>0,"B2 up","down")`, 1, 1, `=IF(B2>0,"B2 up","down")`},
		{"doubled quote escape", `=A1&"say ""B2"""&A2`, 1, 0, `=A2&"say ""B2"""&A3`},
		{"function name not a ref", "=LOG10(A1)", 1, 0, "=LOG10(A2)"},
		{"call followed by paren", "=B2(A1)", 1, 0, "=B2(A2)"},
		{"off grid up", "=A1", -1, 0, "=#REF!"},
		{"off grid left", "=A1", 0, -1, "=#REF!"},
		{"off grid bottom", "=A1048576", 1, 0, "=#REF!"},
		{"lowercase refs", "=b2+c3", 1, 1, "=C3+D4"},
		{"no refs", "=1+2", 3, 3, "=1+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateFormula(tt.formula, tt.rowDelta, tt.colDelta)
			if got != tt.want {
				t.Fatalf("TranslateFormula(%q, %d, %d) = %q, want %q",
					tt.formula, tt.rowDelta, tt.colDelta, got, tt.want)
			}
		})
	}
}
