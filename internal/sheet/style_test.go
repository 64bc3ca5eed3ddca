package sheet

import "testing"

func TestDiffStyle(t *testing.T) {
	defaultLive := StyleSet{
		FontColor:  "#000000",
		FontSize:   11,
		FontFamily: "Calibri",
		Background: "#FFFFFF",
		NumFmt:     "General",
	}

	if diff := DiffStyle(defaultLive, DesktopDefaults); diff != nil {
		t.Fatalf("all-default style should diff to nil, got %+v", diff)
	}

	bold := defaultLive
	bold.Bold = true
	diff := DiffStyle(bold, DesktopDefaults)
	if diff == nil {
		t.Fatal("bold style diffed to nil")
	}
	if *diff != (StyleSet{Bold: true}) {
		t.Fatalf("bold diff = %+v", *diff)
	}

	// Colors compare case-insensitively.
	lower := defaultLive
	lower.FontColor = "#000000"
	lower.Background = "#ffffff"
	if diff := DiffStyle(lower, DesktopDefaults); diff != nil {
		t.Fatalf("case-variant colors should diff to nil, got %+v", diff)
	}

	// "@" is as default as "General".
	text := defaultLive
	text.NumFmt = "@"
	if diff := DiffStyle(text, DesktopDefaults); diff != nil {
		t.Fatalf("text format should diff to nil, got %+v", diff)
	}

	currency := defaultLive
	currency.NumFmt = "$#,##0.00"
	diff = DiffStyle(currency, DesktopDefaults)
	if diff == nil || diff.NumFmt != "$#,##0.00" {
		t.Fatalf("currency diff = %+v", diff)
	}

	// The same live style diffs differently against another host's defaults.
	arial := StyleSet{
		FontColor:  "#000000",
		FontSize:   10,
		FontFamily: "Arial",
		Background: "#FFFFFF",
		NumFmt:     "General",
	}
	if diff := DiffStyle(arial, ServerDefaults); diff != nil {
		t.Fatalf("server-default style should diff to nil, got %+v", diff)
	}
	diff = DiffStyle(arial, DesktopDefaults)
	if diff == nil || diff.FontFamily != "Arial" || diff.FontSize != 10 {
		t.Fatalf("cross-host diff = %+v", diff)
	}
}

func TestStyleSetIsZero(t *testing.T) {
	if !(StyleSet{}).IsZero() {
		t.Fatal("zero StyleSet should be zero")
	}
	if (StyleSet{Italic: true}).IsZero() {
		t.Fatal("italic StyleSet should not be zero")
	}
	if !(BorderSet{}).IsZero() {
		t.Fatal("zero BorderSet should be zero")
	}
	if (BorderSet{Left: &BorderEdge{Style: BorderDotted}}).IsZero() {
		t.Fatal("BorderSet with an edge should not be zero")
	}
}
