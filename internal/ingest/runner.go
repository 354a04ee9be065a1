package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Kinetic-Blast/SQL-Import/internal/runlog"
)

// Runner executes a full import run: for each definition, in order,
// fetch the target schema, select eligible files, and load, reconcile
// and write each one. Every per-file and per-definition error becomes
// an Outcome; nothing short of context cancellation stops the run early.
//
// Runs are strictly sequential. Nothing coordinates concurrent runs, so
// callers must not start two at once.
type Runner struct {
	catalog Catalog
	source  FileSource
	maxAge  time.Duration
	events  *runlog.Recorder
	now     func() time.Time
}

// NewRunner wires a Runner with its collaborators. events may be nil
// when no report trail is wanted.
func NewRunner(catalog Catalog, source FileSource, maxAge time.Duration, events *runlog.Recorder) *Runner {
	return &Runner{
		catalog: catalog,
		source:  source,
		maxAge:  maxAge,
		events:  events,
		now:     time.Now,
	}
}

// Run processes every definition and returns the collected report.
// Partial failure never aborts the run; each definition and each file
// is an independent unit of work with no rollback across files.
func (r *Runner) Run(ctx context.Context, defs []Definition) Report {
	report := Report{
		RunID:   uuid.New(),
		Started: r.now(),
	}

	for _, def := range defs {
		report.Results = append(report.Results, r.runDefinition(ctx, def, report.Started))
	}

	succeeded, failed := report.Counts()
	r.events.Infof("run complete: %d succeeded, %d failed", succeeded, failed)
	return report
}

func (r *Runner) runDefinition(ctx context.Context, def Definition, started time.Time) DefinitionResult {
	res := DefinitionResult{Definition: def}

	r.events.Infof("processing import for %s into %s using delimiter '%s'",
		def.Pattern, def.Target(), def.DelimiterLabel())

	schema, err := r.catalog.Schema(ctx, def.Database, def.Table)
	if err != nil {
		reason := "schema lookup: " + err.Error()
		if errors.Is(err, ErrSchemaNotFound) {
			reason = "schema not found for " + def.Target()
		}
		r.events.Errorf("%s", reason)
		res.Outcomes = append(res.Outcomes, Outcome{Err: reason})
		return res
	}

	dir := ExpandDirectory(def.Directory, started)
	selector := Selector{Source: r.source, MaxAge: r.maxAge, Now: r.now}
	files := selector.Select(dir, def.Pattern)
	if len(files) == 0 {
		r.events.Infof("no recent files matching %q in %s", def.Pattern, dir)
		return res
	}

	for _, f := range files {
		res.Outcomes = append(res.Outcomes, r.importFile(ctx, def, schema, f))
	}
	return res
}

// importFile takes one file through load, reconcile, and write. Each
// stage failure is terminal for the file and recorded as its outcome.
func (r *Runner) importFile(ctx context.Context, def Definition, schema TargetSchema, f FileInfo) Outcome {
	raw, err := LoadFile(r.source, f.Path, def.Delimiter)
	if err != nil {
		r.events.Errorf("error reading file %s: %v", f.Path, err)
		return Outcome{File: f.Path, Err: err.Error()}
	}

	conformant := Reconcile(raw, schema)

	rows, err := r.catalog.Write(ctx, def.Database, def.Table, conformant)
	if err != nil {
		r.events.Errorf("error during import to %s from %s: %v", def.Target(), f.Path, err)
		return Outcome{File: f.Path, Err: "write: " + err.Error()}
	}

	r.events.Infof("imported %d rows into %s from %s", rows, def.Target(), f.Path)
	return Outcome{File: f.Path, Rows: rows}
}
