package sheet

import "strings"

// StyleSet is a sparse style diff: only attributes differing from the host
// defaults are set. Omission means "leave unchanged" on write and "not
// reported" on read. The compact keys keep read payloads small.
type StyleSet struct {
	FontColor  string  `json:"fc,omitempty" yaml:"fc,omitempty" zog:"fc"`
	FontSize   float64 `json:"fs,omitempty" yaml:"fs,omitempty" zog:"fs"`
	FontFamily string  `json:"ff,omitempty" yaml:"ff,omitempty" zog:"ff"`
	Bold       bool    `json:"b,omitempty" yaml:"b,omitempty" zog:"b"`
	Italic     bool    `json:"i,omitempty" yaml:"i,omitempty" zog:"i"`
	Underline  bool    `json:"u,omitempty" yaml:"u,omitempty" zog:"u"`
	Strike     bool    `json:"st,omitempty" yaml:"st,omitempty" zog:"st"`
	Background string  `json:"bg,omitempty" yaml:"bg,omitempty" zog:"bg"`
	HAlign     HAlign  `json:"ha,omitempty" yaml:"ha,omitempty" zog:"ha"`
	NumFmt     string  `json:"nf,omitempty" yaml:"nf,omitempty" zog:"nf"`
}

// IsZero reports whether no attribute is set.
func (s StyleSet) IsZero() bool {
	return s == StyleSet{}
}

// HAlign is a horizontal alignment value.
type HAlign string

const (
	HAlignLeft   HAlign = "left"
	HAlignCenter HAlign = "center"
	HAlignRight  HAlign = "right"
)

func HAlignValues() []HAlign {
	return []HAlign{HAlignLeft, HAlignCenter, HAlignRight}
}

// BorderEdge describes one border line.
type BorderEdge struct {
	Style  BorderLine   `json:"style" yaml:"style" zog:"style"`
	Weight BorderWeight `json:"weight,omitempty" yaml:"weight,omitempty" zog:"weight"`
	Color  string       `json:"color,omitempty" yaml:"color,omitempty" zog:"color"`
}

// BorderSet holds up to four independent edges.
type BorderSet struct {
	Top    *BorderEdge `json:"top,omitempty" yaml:"top,omitempty" zog:"top"`
	Bottom *BorderEdge `json:"bottom,omitempty" yaml:"bottom,omitempty" zog:"bottom"`
	Left   *BorderEdge `json:"left,omitempty" yaml:"left,omitempty" zog:"left"`
	Right  *BorderEdge `json:"right,omitempty" yaml:"right,omitempty" zog:"right"`
}

// IsZero reports whether no edge is set.
func (b BorderSet) IsZero() bool {
	return b.Top == nil && b.Bottom == nil && b.Left == nil && b.Right == nil
}

// BorderLine is a border line style.
type BorderLine string

const (
	BorderSolid  BorderLine = "solid"
	BorderDashed BorderLine = "dashed"
	BorderDotted BorderLine = "dotted"
	BorderDouble BorderLine = "double"
)

func BorderLineValues() []BorderLine {
	return []BorderLine{BorderSolid, BorderDashed, BorderDotted, BorderDouble}
}

// BorderWeight is a border thickness.
type BorderWeight string

const (
	WeightThin   BorderWeight = "thin"
	WeightMedium BorderWeight = "medium"
	WeightThick  BorderWeight = "thick"
)

func BorderWeightValues() []BorderWeight {
	return []BorderWeight{WeightThin, WeightMedium, WeightThick}
}

// StyleDefaults are the host's recorded default style attributes. Hosts
// differ in default font family and size, so each adapter carries its own
// constants; DiffStyle suppresses exactly these values.
type StyleDefaults struct {
	FontColor  string
	FontSize   float64
	FontFamily string
	Background string
	NumFmt     string
}

// DesktopDefaults matches the desktop application host.
var DesktopDefaults = StyleDefaults{
	FontColor:  "#000000",
	FontSize:   11,
	FontFamily: "Calibri",
	Background: "#FFFFFF",
	NumFmt:     "General",
}

// ServerDefaults matches the server-side scripting host.
var ServerDefaults = StyleDefaults{
	FontColor:  "#000000",
	FontSize:   10,
	FontFamily: "Arial",
	Background: "#FFFFFF",
	NumFmt:     "General",
}

// DiffStyle reduces a fully-populated live style to the sparse StyleSet,
// dropping every attribute equal to the host defaults. Returns nil when
// nothing differs.
func DiffStyle(live StyleSet, defaults StyleDefaults) *StyleSet {
	diff := live
	if equalColor(diff.FontColor, defaults.FontColor) {
		diff.FontColor = ""
	}
	if diff.FontSize == defaults.FontSize {
		diff.FontSize = 0
	}
	if diff.FontFamily == defaults.FontFamily {
		diff.FontFamily = ""
	}
	if equalColor(diff.Background, defaults.Background) {
		diff.Background = ""
	}
	// "@" is the text variant of the general format and equally default.
	if diff.NumFmt == defaults.NumFmt || diff.NumFmt == "@" {
		diff.NumFmt = ""
	}
	if diff.IsZero() {
		return nil
	}
	return &diff
}

func equalColor(a, b string) bool {
	return strings.EqualFold(a, b)
}
