package ingest

import (
	"reflect"
	"testing"
)

func TestReconcile_ColumnsAlwaysMatchSchema(t *testing.T) {
	schema := TargetSchema{Columns: []ColumnSpec{
		{Name: "Name"}, {Name: "Amount"}, {Name: "Date"},
	}}

	tests := []struct {
		name string
		raw  RawTable
	}{
		{
			name: "same columns different order",
			raw: RawTable{
				Columns: []string{"Date", "Name", "Amount"},
				Rows:    [][]string{{"2024-01-01", "Alice", "100"}},
			},
		},
		{
			name: "extra and missing columns",
			raw: RawTable{
				Columns: []string{"Name", "Extra"},
				Rows:    [][]string{{"Bob", "junk"}},
			},
		},
		{
			name: "no overlap at all",
			raw: RawTable{
				Columns: []string{"X", "Y"},
				Rows:    [][]string{{"1", "2"}},
			},
		},
		{
			name: "headers only",
			raw:  RawTable{Columns: []string{"Name"}},
		},
	}

	want := []string{"Name", "Amount", "Date"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.raw, schema)
			if !reflect.DeepEqual(got.Columns, want) {
				t.Errorf("Columns = %v, want %v", got.Columns, want)
			}
			if len(got.Rows) != len(tt.raw.Rows) {
				t.Errorf("row count = %d, want %d", len(got.Rows), len(tt.raw.Rows))
			}
			for i, row := range got.Rows {
				if len(row) != len(want) {
					t.Errorf("row %d width = %d, want %d", i, len(row), len(want))
				}
			}
		})
	}
}

func TestReconcile_EndToEndScenario(t *testing.T) {
	// Long name gets cut to 10, Extra is pruned, Date is filled empty.
	raw := RawTable{
		Columns: []string{"Name", "Amount", "Extra"},
		Rows:    [][]string{{"Alice-with-a-very-long-name", "100", "ignored"}},
	}
	schema := TargetSchema{Columns: []ColumnSpec{
		{Name: "Name", MaxLength: 10},
		{Name: "Amount"},
		{Name: "Date"},
	}}

	got := Reconcile(raw, schema)

	wantColumns := []string{"Name", "Amount", "Date"}
	if !reflect.DeepEqual(got.Columns, wantColumns) {
		t.Fatalf("Columns = %v, want %v", got.Columns, wantColumns)
	}
	wantRow := []string{"Alice-with", "100", ""}
	if !reflect.DeepEqual(got.Rows[0], wantRow) {
		t.Errorf("Rows[0] = %v, want %v", got.Rows[0], wantRow)
	}
}

func TestReconcile_LengthBounds(t *testing.T) {
	schema := TargetSchema{Columns: []ColumnSpec{{Name: "V", MaxLength: 4}}}

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"under limit", "abc", "abc"},
		{"at limit", "abcd", "abcd"},
		{"over limit", "abcdef", "abcd"},
		{"empty", "", ""},
		{"multibyte runes counted as characters", "日本語で", "日本語で"},
		{"multibyte over limit", "日本語です", "日本語で"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawTable{Columns: []string{"V"}, Rows: [][]string{{tt.value}}}
			got := Reconcile(raw, schema)
			if got.Rows[0][0] != tt.want {
				t.Errorf("value = %q, want %q", got.Rows[0][0], tt.want)
			}
		})
	}
}

func TestReconcile_UnboundedColumnPassesThrough(t *testing.T) {
	raw := RawTable{
		Columns: []string{"V"},
		Rows:    [][]string{{"a very long value that no limit applies to"}},
	}
	schema := TargetSchema{Columns: []ColumnSpec{{Name: "V"}}}

	got := Reconcile(raw, schema)
	if got.Rows[0][0] != raw.Rows[0][0] {
		t.Errorf("value = %q, want unchanged", got.Rows[0][0])
	}
}

func TestReconcile_PreservesRowOrder(t *testing.T) {
	raw := RawTable{
		Columns: []string{"N"},
		Rows:    [][]string{{"first"}, {"second"}, {"third"}},
	}
	schema := TargetSchema{Columns: []ColumnSpec{{Name: "N"}}}

	got := Reconcile(raw, schema)
	for i, want := range []string{"first", "second", "third"} {
		if got.Rows[i][0] != want {
			t.Errorf("Rows[%d][0] = %q, want %q", i, got.Rows[i][0], want)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	raw := RawTable{
		Columns: []string{"Name", "Amount", "Extra"},
		Rows: [][]string{
			{"Alice-with-a-very-long-name", "100", "x"},
			{"Bob", "", "y"},
		},
	}
	schema := TargetSchema{Columns: []ColumnSpec{
		{Name: "Name", MaxLength: 10},
		{Name: "Amount"},
		{Name: "Date"},
	}}

	once := Reconcile(raw, schema)
	twice := Reconcile(RawTable{Columns: once.Columns, Rows: once.Rows}, schema)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("reconciling a conformant table changed it:\nonce  = %+v\ntwice = %+v", once, twice)
	}
}

func TestReconcile_DuplicateFileColumnFirstWins(t *testing.T) {
	raw := RawTable{
		Columns: []string{"V", "V"},
		Rows:    [][]string{{"first", "second"}},
	}
	schema := TargetSchema{Columns: []ColumnSpec{{Name: "V"}}}

	got := Reconcile(raw, schema)
	if got.Rows[0][0] != "first" {
		t.Errorf("value = %q, want %q", got.Rows[0][0], "first")
	}
}

func TestReconcile_RaggedRowTreatedAsMissing(t *testing.T) {
	// A row shorter than the header cannot supply trailing columns.
	raw := RawTable{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"only-a"}},
	}
	schema := TargetSchema{Columns: []ColumnSpec{{Name: "A"}, {Name: "B"}}}

	got := Reconcile(raw, schema)
	want := []string{"only-a", ""}
	if !reflect.DeepEqual(got.Rows[0], want) {
		t.Errorf("Rows[0] = %v, want %v", got.Rows[0], want)
	}
}
