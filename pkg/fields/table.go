package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/internal/locale"
	"github.com/goliatone/go-formflow/pkg/form"
)

func coerceRows(raw any) []map[string]any {
	switch v := raw.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, entry := range v {
			row, ok := entry.(map[string]any)
			if !ok {
				return nil
			}
			out = append(out, row)
		}
		return out
	}
	return nil
}

func validateTable(in *form.Input, resolvedID string, raw any) *Issue {
	rows := coerceRows(raw)
	if len(rows) == 0 {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Bitte mindestens eine Zeile ausfüllen.")
		}
	}

	spec := in.Table
	if spec == nil {
		return nil
	}
	if spec.MinRows > 0 && len(rows) < spec.MinRows {
		return issueWith(resolvedID, CodeTooFewRows,
			fmt.Sprintf("Bitte mindestens %d Zeilen ausfüllen.", spec.MinRows),
			map[string]any{"min": spec.MinRows, "got": len(rows)})
	}
	if spec.MaxRows > 0 && len(rows) > spec.MaxRows {
		return issueWith(resolvedID, CodeTooManyRows,
			fmt.Sprintf("Bitte höchstens %d Zeilen ausfüllen.", spec.MaxRows),
			map[string]any{"max": spec.MaxRows, "got": len(rows)})
	}

	for rowIdx, row := range rows {
		for _, col := range spec.Columns {
			if iss := validateCell(resolvedID, rowIdx, col, row[col.ID]); iss != nil {
				return iss
			}
		}
	}
	return nil
}

func validateCell(resolvedID string, rowIdx int, col form.TableColumn, cell any) *Issue {
	// A blank string counts as absent for required checks.
	absent := cell == nil
	if s, ok := cell.(string); ok && strings.TrimSpace(s) == "" {
		absent = true
	}
	if absent {
		if col.Required {
			return issueWith(resolvedID, CodeCellRequired,
				fmt.Sprintf("Zeile %d: %q ist ein Pflichtfeld.", rowIdx+1, col.Label),
				map[string]any{"row": rowIdx, "column": col.ID})
		}
		return nil
	}

	switch col.Kind {
	case form.ColumnNumber:
		value, ok := numberValue(cell)
		if !ok {
			return issueWith(resolvedID, CodeCellType,
				fmt.Sprintf("Zeile %d: %q muss eine Zahl sein.", rowIdx+1, col.Label),
				map[string]any{"row": rowIdx, "column": col.ID})
		}
		if value < -absoluteNumberBound || value > absoluteNumberBound {
			return issueWith(resolvedID, CodeCellOutOfRange,
				fmt.Sprintf("Zeile %d: Der Wert in %q liegt außerhalb des zulässigen Bereichs.", rowIdx+1, col.Label),
				map[string]any{"row": rowIdx, "column": col.ID, "got": value})
		}
		if col.Min != nil && value < *col.Min {
			return issueWith(resolvedID, CodeCellOutOfRange,
				fmt.Sprintf("Zeile %d: %q darf nicht kleiner als %s sein.", rowIdx+1, col.Label, locale.FormatDecimal(*col.Min, 0)),
				map[string]any{"row": rowIdx, "column": col.ID, "min": *col.Min, "got": value})
		}
		if col.Max != nil && value > *col.Max {
			return issueWith(resolvedID, CodeCellOutOfRange,
				fmt.Sprintf("Zeile %d: %q darf nicht größer als %s sein.", rowIdx+1, col.Label, locale.FormatDecimal(*col.Max, 0)),
				map[string]any{"row": rowIdx, "column": col.ID, "max": *col.Max, "got": value})
		}
	case form.ColumnString:
		if _, ok := cell.(string); !ok {
			return issueWith(resolvedID, CodeCellType,
				fmt.Sprintf("Zeile %d: %q muss ein Text sein.", rowIdx+1, col.Label),
				map[string]any{"row": rowIdx, "column": col.ID})
		}
	}
	return nil
}

func displayTable(in *form.Input, raw any) string {
	rows := coerceRows(raw)
	if len(rows) == 0 || in.Table == nil {
		return ""
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(in.Table.Columns))
		for _, col := range in.Table.Columns {
			cells = append(cells, displayCell(col, row[col.ID]))
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n")
}

func displayCell(col form.TableColumn, cell any) string {
	if cell == nil {
		return ""
	}
	if col.Kind == form.ColumnNumber {
		if value, ok := numberValue(cell); ok {
			return locale.FormatDecimal(value, 0)
		}
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
