package addr

import "testing"

func TestParseRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Range
	}{
		{"single cell", "A1", Range{0, 0, 0, 0}},
		{"cell range", "A1:C10", Range{0, 0, 9, 2}},
		{"column range", "A:C", Range{0, 0, MaxRows - 1, 2}},
		{"row range", "5:10", Range{4, 0, 9, MaxColumns - 1}},
		{"cell to column", "A1:B", Range{0, 0, MaxRows - 1, 1}},
		{"column to row", "A:1", Range{0, 0, 0, MaxColumns - 1}},
		{"lowercase", "b2:d4", Range{1, 1, 3, 3}},
		{"whitespace", " A1 : C3 ", Range{0, 0, 2, 2}},
		{"dollar locks", "$A$1:$C$10", Range{0, 0, 9, 2}},
		{"reversed cells", "C10:A1", Range{0, 0, 9, 2}},
		{"reversed columns", "C:A", Range{0, 0, MaxRows - 1, 2}},
		{"reversed rows", "10:5", Range{4, 0, 9, MaxColumns - 1}},
		{"wide column", "AA1:AB2", Range{0, 26, 1, 27}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if err != nil {
				t.Fatalf("ParseRange(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRangeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"digits first", "1A"},
		{"trailing colon", "A1:"},
		{"leading colon", ":A1"},
		{"bare column no colon", "A"},
		{"bare row no colon", "5"},
		{"row zero", "A0"},
		{"column out of bounds", "XFE1"},
		{"row out of bounds", "A1048577"},
		{"garbage", "foo bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRange(tt.input); err == nil {
				t.Fatalf("ParseRange(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestColumnLetterRoundTrip(t *testing.T) {
	tests := []struct {
		index   int
		letters string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{MaxColumns - 1, "XFD"},
	}
	for _, tt := range tests {
		if got := ColumnToLetter(tt.index); got != tt.letters {
			t.Fatalf("ColumnToLetter(%d) = %q, want %q", tt.index, got, tt.letters)
		}
		if got := LetterToColumn(tt.letters); got != tt.index {
			t.Fatalf("LetterToColumn(%q) = %d, want %d", tt.letters, got, tt.index)
		}
	}
}

func TestCellName(t *testing.T) {
	if got := CellName(0, 0); got != "A1" {
		t.Fatalf("CellName(0, 0) = %q, want A1", got)
	}
	if got := CellName(9, 27); got != "AB10" {
		t.Fatalf("CellName(9, 27) = %q, want AB10", got)
	}
}

func TestParseCell(t *testing.T) {
	row, col, err := ParseCell("B3")
	if err != nil {
		t.Fatalf("ParseCell(B3): %v", err)
	}
	if row != 2 || col != 1 {
		t.Fatalf("ParseCell(B3) = (%d, %d), want (2, 1)", row, col)
	}
	if _, _, err := ParseCell("A1:B2"); err == nil {
		t.Fatal("ParseCell(A1:B2) succeeded, want error")
	}
}

func TestRangeClamp(t *testing.T) {
	open, err := ParseRange("A:C")
	if err != nil {
		t.Fatal(err)
	}
	got := open.Clamp(9, 1)
	want := Range{0, 0, 9, 1}
	if got != want {
		t.Fatalf("Clamp = %+v, want %+v", got, want)
	}

	// A range entirely beyond the bounds collapses onto the boundary.
	far := Range{StartRow: 20, StartCol: 5, EndRow: 30, EndCol: 8}
	got = far.Clamp(9, 2)
	if got.StartRow != 9 || got.EndRow != 9 || got.StartCol != 2 || got.EndCol != 2 {
		t.Fatalf("Clamp beyond bounds = %+v", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 3}
	if !r.Contains(1, 1) || !r.Contains(3, 3) || !r.Contains(2, 2) {
		t.Fatal("Contains missed an inside cell")
	}
	if r.Contains(0, 1) || r.Contains(1, 4) {
		t.Fatal("Contains accepted an outside cell")
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{Range{0, 0, 0, 0}, "A1"},
		{Range{0, 0, 9, 2}, "A1:C10"},
		{Range{4, 26, 4, 26}, "AA5"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Fatalf("Range%+v.String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestRangeDimensions(t *testing.T) {
	r := Range{StartRow: 1, StartCol: 2, EndRow: 4, EndCol: 5}
	if r.Rows() != 4 || r.Cols() != 4 || r.Cells() != 16 {
		t.Fatalf("got rows=%d cols=%d cells=%d", r.Rows(), r.Cols(), r.Cells())
	}
}
