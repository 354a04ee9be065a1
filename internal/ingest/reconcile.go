package ingest

import "unicode/utf8"

// Reconcile reshapes a raw table so it conforms to the target schema.
// It is a pure function of its inputs:
//
//   - columns come out in schema order, exactly the schema's column set
//   - a schema column missing from the file is filled with ""
//   - a file column absent from the schema is dropped, unconditionally
//   - values longer than a column's MaxLength are cut to exactly
//     MaxLength characters
//   - row order is preserved
//
// Nullability is not checked here; shape conformance only. A headers-only
// table reconciles to zero rows with the correct columns.
func Reconcile(raw RawTable, schema TargetSchema) ConformantTable {
	// First occurrence wins if the file repeats a column name.
	idx := make(map[string]int, len(raw.Columns))
	for i, name := range raw.Columns {
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	out := ConformantTable{
		Columns: schema.Names(),
		Rows:    make([][]string, len(raw.Rows)),
	}
	for ri, rawRow := range raw.Rows {
		row := make([]string, len(schema.Columns))
		for ci, spec := range schema.Columns {
			v := ""
			if pos, ok := idx[spec.Name]; ok && pos < len(rawRow) {
				v = rawRow[pos]
			}
			if spec.MaxLength > 0 {
				v = truncate(v, spec.MaxLength)
			}
			row[ci] = v
		}
		out.Rows[ri] = row
	}
	return out
}

// truncate cuts s to at most max characters (runes, not bytes).
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
