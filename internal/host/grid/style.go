package grid

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// Border style constants differ per weight in the xlsx model, so each
// (line, weight) pair maps to one excelize style number.
var borderStyleIDs = map[sheet.BorderLine]map[sheet.BorderWeight]int{
	sheet.BorderSolid:  {sheet.WeightThin: 1, sheet.WeightMedium: 2, sheet.WeightThick: 5},
	sheet.BorderDashed: {sheet.WeightThin: 3, sheet.WeightMedium: 8, sheet.WeightThick: 8},
	sheet.BorderDotted: {sheet.WeightThin: 4, sheet.WeightMedium: 4, sheet.WeightThick: 4},
	sheet.BorderDouble: {sheet.WeightThin: 6, sheet.WeightMedium: 6, sheet.WeightThick: 6},
}

var borderStyleNames = map[int]struct {
	line   sheet.BorderLine
	weight sheet.BorderWeight
}{
	1: {sheet.BorderSolid, sheet.WeightThin},
	2: {sheet.BorderSolid, sheet.WeightMedium},
	5: {sheet.BorderSolid, sheet.WeightThick},
	3: {sheet.BorderDashed, sheet.WeightThin},
	8: {sheet.BorderDashed, sheet.WeightMedium},
	4: {sheet.BorderDotted, sheet.WeightThin},
	7: {sheet.BorderDotted, sheet.WeightThin},
	6: {sheet.BorderDouble, sheet.WeightMedium},
}

func borderStyleID(edge *sheet.BorderEdge) int {
	weights, ok := borderStyleIDs[edge.Style]
	if !ok {
		return 1
	}
	weight := edge.Weight
	if weight == "" {
		weight = sheet.WeightThin
	}
	if id, ok := weights[weight]; ok {
		return id
	}
	return 1
}

// liveStyle reads the cell's full style and reduces it to the uniform model
// before diffing.
func (g *Grid) liveStyle(sheetName, cell string) (sheet.StyleSet, *sheet.BorderSet, error) {
	styleID, err := g.file.GetCellStyle(sheetName, cell)
	if err != nil {
		return sheet.StyleSet{}, nil, err
	}
	style, err := g.file.GetStyle(styleID)
	if err != nil || style == nil {
		return sheet.StyleSet{}, nil, err
	}

	var live sheet.StyleSet
	if style.Font != nil {
		live.FontColor = normalizeColor(style.Font.Color)
		live.FontSize = style.Font.Size
		live.FontFamily = style.Font.Family
		live.Bold = style.Font.Bold
		live.Italic = style.Font.Italic
		live.Underline = style.Font.Underline != "" && style.Font.Underline != "none"
		live.Strike = style.Font.Strike
	}
	if style.Fill.Type == "pattern" && style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
		live.Background = normalizeColor(style.Fill.Color[0])
	}
	if style.Alignment != nil {
		switch style.Alignment.Horizontal {
		case "left":
			live.HAlign = sheet.HAlignLeft
		case "center":
			live.HAlign = sheet.HAlignCenter
		case "right":
			live.HAlign = sheet.HAlignRight
		}
	}
	if style.CustomNumFmt != nil {
		live.NumFmt = *style.CustomNumFmt
	}

	var borders *sheet.BorderSet
	for _, b := range style.Border {
		mapped, ok := borderStyleNames[b.Style]
		if !ok {
			continue
		}
		edge := &sheet.BorderEdge{Style: mapped.line, Weight: mapped.weight, Color: normalizeColor(b.Color)}
		if borders == nil {
			borders = &sheet.BorderSet{}
		}
		switch b.Type {
		case "top":
			borders.Top = edge
		case "bottom":
			borders.Bottom = edge
		case "left":
			borders.Left = edge
		case "right":
			borders.Right = edge
		}
	}
	return live, borders, nil
}

// applyStyle overlays the sparse style onto the cell's current style, so
// omitted attributes stay untouched.
func (g *Grid) applyStyle(sheetName, cell string, styles *sheet.StyleSet, borders *sheet.BorderSet) error {
	styleID, err := g.file.GetCellStyle(sheetName, cell)
	if err != nil {
		return err
	}
	current, err := g.file.GetStyle(styleID)
	if err != nil {
		return err
	}
	if current == nil {
		current = &excelize.Style{}
	}

	if styles != nil {
		if current.Font == nil {
			current.Font = &excelize.Font{}
		}
		if styles.FontColor != "" {
			current.Font.Color = strings.TrimPrefix(styles.FontColor, "#")
		}
		if styles.FontSize > 0 {
			current.Font.Size = styles.FontSize
		}
		if styles.FontFamily != "" {
			current.Font.Family = styles.FontFamily
		}
		if styles.Bold {
			current.Font.Bold = true
		}
		if styles.Italic {
			current.Font.Italic = true
		}
		if styles.Underline {
			current.Font.Underline = "single"
		}
		if styles.Strike {
			current.Font.Strike = true
		}
		if styles.Background != "" {
			current.Fill = excelize.Fill{
				Type:    "pattern",
				Pattern: 1,
				Color:   []string{strings.TrimPrefix(styles.Background, "#")},
			}
		}
		if styles.HAlign != "" {
			if current.Alignment == nil {
				current.Alignment = &excelize.Alignment{}
			}
			current.Alignment.Horizontal = string(styles.HAlign)
		}
		if styles.NumFmt != "" {
			numFmt := styles.NumFmt
			current.CustomNumFmt = &numFmt
		}
	}

	if borders != nil {
		edges := map[string]*sheet.BorderEdge{
			"top": borders.Top, "bottom": borders.Bottom,
			"left": borders.Left, "right": borders.Right,
		}
		kept := current.Border[:0]
		for _, b := range current.Border {
			if edges[b.Type] == nil {
				kept = append(kept, b)
			}
		}
		current.Border = kept
		for edgeType, edge := range edges {
			if edge == nil {
				continue
			}
			current.Border = append(current.Border, excelize.Border{
				Type:  edgeType,
				Style: borderStyleID(edge),
				Color: strings.TrimPrefix(edge.Color, "#"),
			})
		}
	}

	newID, err := g.file.NewStyle(current)
	if err != nil {
		return err
	}
	return g.file.SetCellStyle(sheetName, cell, cell, newID)
}

// clearFormats resets the cell to the default style.
func (g *Grid) clearFormats(sheetName, cell string) error {
	return g.file.SetCellStyle(sheetName, cell, cell, 0)
}

func normalizeColor(c string) string {
	if c == "" {
		return ""
	}
	c = strings.TrimPrefix(c, "#")
	// xlsx colors often carry an alpha prefix (FFRRGGBB).
	if len(c) == 8 {
		c = c[2:]
	}
	return "#" + strings.ToUpper(c)
}
