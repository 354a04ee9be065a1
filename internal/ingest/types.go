// Package ingest contains the import engine: file selection, delimited
// table loading, schema reconciliation, and run orchestration.
// It has no database or SMTP dependencies; those are injected as the
// Catalog and FileSource interfaces.
package ingest

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

// Definition describes one recurring import: where files are dropped,
// which names to pick up, how fields are separated, and the destination
// table. Definitions are supplied at startup and never mutated.
type Definition struct {
	// Directory is the drop folder. It may embed a Go reference-time
	// layout in braces, e.g. "/data/drops/{2006_01}", which is expanded
	// with the run start time.
	Directory string `yaml:"directory"`

	// Pattern is a glob matched against file base names (* and ? wildcards).
	Pattern string `yaml:"pattern"`

	// Delimiter separates fields within a row. Usually a single character;
	// the config loader normalizes "tab" and "\t" spellings.
	Delimiter string `yaml:"delimiter"`

	// Database and Table identify the destination.
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// Target returns the destination as "database.table" for logs and reports.
func (d Definition) Target() string {
	return d.Database + "." + d.Table
}

// DelimiterLabel returns a printable form of the delimiter.
// A raw tab would be invisible in a report.
func (d Definition) DelimiterLabel() string {
	if d.Delimiter == "\t" {
		return "TAB"
	}
	return d.Delimiter
}

// FileInfo is a candidate file discovered in a drop directory.
type FileInfo struct {
	Path    string
	ModTime time.Time
}

// FileSource lists and opens drop files. The OS implementation is
// OSFileSource; tests substitute in-memory fakes.
type FileSource interface {
	// List returns all regular files in dir. A missing or unreadable
	// directory is reported as an error; the Selector treats that as
	// an empty listing.
	List(dir string) ([]FileInfo, error)

	// Open opens a listed file for reading.
	Open(path string) (io.ReadCloser, error)
}

// RawTable is a delimited file loaded into memory: a header-defined
// column list and rows of raw string values, in file order. No type
// inference happens at this layer.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnSpec is one column of a destination table schema.
type ColumnSpec struct {
	Name string

	// MaxLength bounds string values in characters. Zero means unbounded.
	MaxLength int

	// Nullable reports whether the destination column accepts NULL.
	// Reconciliation does not enforce it; a non-nullable column that
	// ends up empty surfaces as a write error from the Catalog.
	Nullable bool
}

// TargetSchema is the ordered column set of a destination table,
// read-only ground truth for a run.
type TargetSchema struct {
	Columns []ColumnSpec
}

// Names returns the column names in schema order.
func (s TargetSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// ConformantTable is a RawTable reshaped to match a TargetSchema:
// same columns, same order, every value within its length bound.
type ConformantTable struct {
	Columns []string
	Rows    [][]string
}

// ErrSchemaNotFound is returned by Catalog.Schema when the destination
// table does not exist.
var ErrSchemaNotFound = errors.New("schema not found")

// Catalog reads destination schemas and persists conformant rows.
// Connection handling and SQL dialect are entirely the implementation's
// concern; see the catalog package for the Postgres one.
type Catalog interface {
	// Schema returns the target schema for (database, table), or an
	// error wrapping ErrSchemaNotFound when the table does not exist.
	Schema(ctx context.Context, database, table string) (TargetSchema, error)

	// Write appends the table's rows to the destination and returns the
	// number of rows written. A zero-row write is a no-op success.
	Write(ctx context.Context, database, table string, t ConformantTable) (int, error)
}

// Outcome records the terminal result of one attempted file import.
// A definition-level failure (schema unavailable) has an empty File.
type Outcome struct {
	File string
	Rows int    // rows written; meaningful only on success
	Err  string // failure reason; empty on success
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Err != ""
}

// DefinitionResult groups the outcomes produced for one definition.
// A definition that selected zero files has an empty Outcomes slice
// but still appears in the report.
type DefinitionResult struct {
	Definition Definition
	Outcomes   []Outcome
}

// Report is the full record of one run, in execution order.
type Report struct {
	RunID   uuid.UUID
	Started time.Time
	Results []DefinitionResult
}

// Counts returns the number of successful and failed outcomes.
func (r Report) Counts() (succeeded, failed int) {
	for _, res := range r.Results {
		for _, o := range res.Outcomes {
			if o.Failed() {
				failed++
			} else {
				succeeded++
			}
		}
	}
	return succeeded, failed
}
