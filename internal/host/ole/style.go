package ole

import (
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// Border positions by COM index: Left(7), Top(8), Bottom(9), Right(10).
var borderPositions = []struct {
	index int
	set   func(*sheet.BorderSet, *sheet.BorderEdge)
	get   func(*sheet.BorderSet) *sheet.BorderEdge
}{
	{7, func(b *sheet.BorderSet, e *sheet.BorderEdge) { b.Left = e }, func(b *sheet.BorderSet) *sheet.BorderEdge { return b.Left }},
	{8, func(b *sheet.BorderSet, e *sheet.BorderEdge) { b.Top = e }, func(b *sheet.BorderSet) *sheet.BorderEdge { return b.Top }},
	{9, func(b *sheet.BorderSet, e *sheet.BorderEdge) { b.Bottom = e }, func(b *sheet.BorderSet) *sheet.BorderEdge { return b.Bottom }},
	{10, func(b *sheet.BorderSet, e *sheet.BorderEdge) { b.Right = e }, func(b *sheet.BorderSet) *sheet.BorderEdge { return b.Right }},
}

// lineStyleOf maps the host's LineStyle constant to the uniform line enum.
// ok is false for xlLineStyleNone and variants outside the uniform model.
func lineStyleOf(lineStyle int32) (sheet.BorderLine, bool) {
	switch lineStyle {
	case 1: // xlContinuous
		return sheet.BorderSolid, true
	case -4115: // xlDash
		return sheet.BorderDashed, true
	case -4118: // xlDot
		return sheet.BorderDotted, true
	case -4119: // xlDouble
		return sheet.BorderDouble, true
	}
	return "", false
}

func lineStyleConst(line sheet.BorderLine) int32 {
	switch line {
	case sheet.BorderDashed:
		return -4115 // xlDash
	case sheet.BorderDotted:
		return -4118 // xlDot
	case sheet.BorderDouble:
		return -4119 // xlDouble
	}
	return 1 // xlContinuous
}

// weightOf maps the host's Weight constant: xlThin(2), xlMedium(-4138),
// xlThick(4).
func weightOf(weight int32) sheet.BorderWeight {
	switch weight {
	case -4138:
		return sheet.WeightMedium
	case 4:
		return sheet.WeightThick
	}
	return sheet.WeightThin
}

func weightConst(weight sheet.BorderWeight) int32 {
	switch weight {
	case sheet.WeightMedium:
		return -4138 // xlMedium
	case sheet.WeightThick:
		return 4 // xlThick
	}
	return 2 // xlThin
}

// liveStyle reads a cell's formatting from the host into the uniform model.
// The caller diffs against the host defaults before reporting.
func liveStyle(rng *ole.IDispatch) (sheet.StyleSet, *sheet.BorderSet) {
	var live sheet.StyleSet

	font := oleutil.MustGetProperty(rng, "Font").ToIDispatch()
	if size, ok := oleutil.MustGetProperty(font, "Size").Value().(float64); ok {
		live.FontSize = size
	}
	if name, ok := oleutil.MustGetProperty(font, "Name").Value().(string); ok {
		live.FontFamily = name
	}
	if color, ok := oleutil.MustGetProperty(font, "Color").Value().(float64); ok {
		live.FontColor = bgrToRgb(color)
	}
	live.Bold, _ = oleutil.MustGetProperty(font, "Bold").Value().(bool)
	live.Italic, _ = oleutil.MustGetProperty(font, "Italic").Value().(bool)
	live.Strike, _ = oleutil.MustGetProperty(font, "Strikethrough").Value().(bool)
	if underline, ok := oleutil.MustGetProperty(font, "Underline").Value().(int32); ok {
		live.Underline = underline != -4142 // xlUnderlineStyleNone
	}
	font.Release()

	interior := oleutil.MustGetProperty(rng, "Interior").ToIDispatch()
	if pattern, ok := oleutil.MustGetProperty(interior, "Pattern").Value().(int32); ok && pattern == 1 { // xlPatternSolid
		if color, ok := oleutil.MustGetProperty(interior, "Color").Value().(float64); ok {
			live.Background = bgrToRgb(color)
		}
	}
	interior.Release()

	if align, ok := oleutil.MustGetProperty(rng, "HorizontalAlignment").Value().(int32); ok {
		switch align {
		case -4131: // xlLeft
			live.HAlign = sheet.HAlignLeft
		case -4108: // xlCenter
			live.HAlign = sheet.HAlignCenter
		case -4152: // xlRight
			live.HAlign = sheet.HAlignRight
		}
	}
	if numFmt, ok := oleutil.MustGetProperty(rng, "NumberFormat").Value().(string); ok {
		live.NumFmt = numFmt
	}

	var set *sheet.BorderSet
	borders := oleutil.MustGetProperty(rng, "Borders").ToIDispatch()
	for _, pos := range borderPositions {
		border := oleutil.MustGetProperty(borders, "Item", pos.index).ToIDispatch()
		lineStyle, _ := oleutil.MustGetProperty(border, "LineStyle").Value().(int32)
		line, ok := lineStyleOf(lineStyle)
		if ok {
			weight, _ := oleutil.MustGetProperty(border, "Weight").Value().(int32)
			color, _ := oleutil.MustGetProperty(border, "Color").Value().(float64)
			if set == nil {
				set = &sheet.BorderSet{}
			}
			pos.set(set, &sheet.BorderEdge{
				Style:  line,
				Weight: weightOf(weight),
				Color:  bgrToRgb(color),
			})
		}
		border.Release()
	}
	borders.Release()

	return live, set
}

// applyStyle writes the sparse style onto the cell. Omitted attributes are
// left untouched; the host keeps whatever was there.
func applyStyle(rng *ole.IDispatch, styles *sheet.StyleSet, borderSet *sheet.BorderSet) error {
	if styles != nil {
		font := oleutil.MustGetProperty(rng, "Font").ToIDispatch()
		if styles.Bold {
			oleutil.PutProperty(font, "Bold", true)
		}
		if styles.Italic {
			oleutil.PutProperty(font, "Italic", true)
		}
		if styles.Underline {
			oleutil.PutProperty(font, "Underline", 2) // xlUnderlineStyleSingle
		}
		if styles.Strike {
			oleutil.PutProperty(font, "Strikethrough", true)
		}
		if styles.FontSize > 0 {
			oleutil.PutProperty(font, "Size", styles.FontSize)
		}
		if styles.FontFamily != "" {
			oleutil.PutProperty(font, "Name", styles.FontFamily)
		}
		if styles.FontColor != "" {
			oleutil.PutProperty(font, "Color", rgbToBgr(styles.FontColor))
		}
		font.Release()

		if styles.Background != "" {
			interior := oleutil.MustGetProperty(rng, "Interior").ToIDispatch()
			oleutil.PutProperty(interior, "Pattern", 1) // xlPatternSolid
			oleutil.PutProperty(interior, "Color", rgbToBgr(styles.Background))
			interior.Release()
		}
		switch styles.HAlign {
		case sheet.HAlignLeft:
			oleutil.PutProperty(rng, "HorizontalAlignment", -4131)
		case sheet.HAlignCenter:
			oleutil.PutProperty(rng, "HorizontalAlignment", -4108)
		case sheet.HAlignRight:
			oleutil.PutProperty(rng, "HorizontalAlignment", -4152)
		}
		if styles.NumFmt != "" {
			oleutil.PutProperty(rng, "NumberFormat", styles.NumFmt)
		}
	}

	if borderSet != nil {
		borders := oleutil.MustGetProperty(rng, "Borders").ToIDispatch()
		for _, pos := range borderPositions {
			edge := pos.get(borderSet)
			if edge == nil {
				continue
			}
			border := oleutil.MustGetProperty(borders, "Item", pos.index).ToIDispatch()
			oleutil.PutProperty(border, "LineStyle", lineStyleConst(edge.Style))
			oleutil.PutProperty(border, "Weight", weightConst(edge.Weight))
			if edge.Color != "" {
				oleutil.PutProperty(border, "Color", rgbToBgr(edge.Color))
			}
			border.Release()
		}
		borders.Release()
	}
	return nil
}

// bgrToRgb converts the host's BGR color value to an RGB hex string.
func bgrToRgb(bgr float64) string {
	v := int32(bgr)
	r := (v >> 0) & 0xFF
	g := (v >> 8) & 0xFF
	b := (v >> 16) & 0xFF
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// rgbToBgr converts an RGB hex string to the host's BGR color value.
func rgbToBgr(rgb string) int32 {
	if len(rgb) != 7 || rgb[0] != '#' {
		return 0
	}
	r := hexToByte(rgb[1:3])
	g := hexToByte(rgb[3:5])
	b := hexToByte(rgb[5:7])
	return int32(r) | (int32(g) << 8) | (int32(b) << 16)
}

func hexToByte(hex string) byte {
	var result byte
	for _, char := range hex {
		result *= 16
		switch {
		case char >= '0' && char <= '9':
			result += byte(char - '0')
		case char >= 'A' && char <= 'F':
			result += byte(char - 'A' + 10)
		case char >= 'a' && char <= 'f':
			result += byte(char - 'a' + 10)
		}
	}
	return result
}
