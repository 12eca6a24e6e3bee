package grid

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "soacli/internal/errors"
)

// builtinDateFormats are the built-in number format IDs that render a
// serial number as a calendar date (date and date-time formats, not the
// pure time-of-day ones).
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true,
	55: true, 56: true, 57: true, 58: true,
}

// Load decodes raw xlsx bytes into a typed grid from the first worksheet
// that contains any data. It returns a CorruptFile error when the archive
// cannot be decoded at all.
func Load(data []byte) (*Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewCorruptFileError("failed to open workbook", err)
	}
	defer f.Close()

	sheet, rows := firstSheetWithContent(f)
	if sheet == "" {
		// An empty but well-formed workbook yields an empty grid; the
		// caller decides whether that is an error.
		return &Grid{}, nil
	}

	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	g := &Grid{Sheet: sheet, Rows: make([][]Cell, len(rows))}
	styleCache := make(map[int]bool)

	for ri, row := range rows {
		cells := make([]Cell, maxCols)
		for ci, raw := range row {
			cells[ci] = decodeCell(f, sheet, ri, ci, raw, styleCache)
		}
		g.Rows[ri] = cells
	}
	return g, nil
}

// firstSheetWithContent returns the first sheet, in workbook order, that has
// at least one non-empty cell, along with its raw rows.
func firstSheetWithContent(f *excelize.File) (string, [][]string) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, v := range row {
				if strings.TrimSpace(v) != "" {
					return name, rows
				}
			}
		}
	}
	return "", nil
}

// decodeCell types a single raw cell value. Anything that cannot be decoded
// into a richer kind degrades to a string.
func decodeCell(f *excelize.File, sheet string, ri, ci int, raw string, styleCache map[int]bool) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{Kind: KindNull}
	}

	axis, err := excelize.CoordinatesToCellName(ci+1, ri+1)
	if err != nil {
		return Cell{Kind: KindString, Text: raw}
	}

	ctype, err := f.GetCellType(sheet, axis)
	if err != nil {
		return Cell{Kind: KindString, Text: raw}
	}

	switch ctype {
	case excelize.CellTypeBool:
		b := raw == "1" || strings.EqualFold(raw, "true")
		return Cell{Kind: KindBool, Text: raw, Bool: b}

	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return Cell{Kind: KindString, Text: raw}

	case excelize.CellTypeError:
		return Cell{Kind: KindString, Text: raw}
	}

	// Number, date, formula result, or unset: try numeric first.
	n, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if perr != nil {
		return Cell{Kind: KindString, Text: raw}
	}

	if isDateStyled(f, sheet, axis, styleCache) {
		if t, derr := excelize.ExcelDateToTime(n, false); derr == nil {
			return Cell{Kind: KindDate, Text: raw, Time: t}
		}
	}
	return Cell{Kind: KindNumber, Text: raw, Number: n}
}

// isDateStyled reports whether the cell's number format renders a date:
// either a built-in date format ID, or a custom format code carrying
// day/month/year tokens without an hour token.
func isDateStyled(f *excelize.File, sheet, axis string, cache map[int]bool) bool {
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return false
	}
	if v, ok := cache[styleID]; ok {
		return v
	}

	isDate := false
	if style, err := f.GetStyle(styleID); err == nil && style != nil {
		if builtinDateFormats[style.NumFmt] {
			isDate = true
		} else if style.CustomNumFmt != nil {
			isDate = customFormatIsDate(*style.CustomNumFmt)
		}
	}
	cache[styleID] = isDate
	return isDate
}

func customFormatIsDate(code string) bool {
	l := strings.ToLower(code)
	if strings.Contains(l, "h") {
		return false
	}
	return strings.Contains(l, "y") || strings.Contains(l, "d") || strings.Contains(l, "m")
}
