// Package catalog implements ingest.Catalog against PostgreSQL using
// pgx. Schemas come from information_schema and writes are plain
// appends; no migration or DDL ever happens here.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Kinetic-Blast/SQL-Import/internal/ingest"
)

// DB is the subset of *pgxpool.Pool the catalog needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres serves one database; a pgx pool is bound to a single one.
// Use Set to route across several databases.
type Postgres struct {
	db          DB
	database    string
	tableSchema string // namespace the destination tables live in, e.g. "public"
}

// NewPostgres returns a catalog for the named database backed by db.
func NewPostgres(db DB, database, tableSchema string) *Postgres {
	return &Postgres{db: db, database: database, tableSchema: tableSchema}
}

const columnsQuery = `
SELECT column_name, character_maximum_length, is_nullable, is_identity
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

// Schema reads the destination table's column layout. Identity columns
// are excluded: they are generated by the database and drop files never
// carry them. A table with no columns at all does not exist, which maps
// to ingest.ErrSchemaNotFound.
func (p *Postgres) Schema(ctx context.Context, database, table string) (ingest.TargetSchema, error) {
	if database != p.database {
		return ingest.TargetSchema{}, fmt.Errorf("catalog serves database %q, not %q", p.database, database)
	}

	rows, err := p.db.Query(ctx, columnsQuery, p.tableSchema, table)
	if err != nil {
		return ingest.TargetSchema{}, fmt.Errorf("query columns of %s.%s: %w", database, table, err)
	}
	defer rows.Close()

	var schema ingest.TargetSchema
	for rows.Next() {
		var (
			name     string
			maxLen   pgtype.Int4
			nullable string
			identity string
		)
		if err := rows.Scan(&name, &maxLen, &nullable, &identity); err != nil {
			return ingest.TargetSchema{}, fmt.Errorf("scan column of %s.%s: %w", database, table, err)
		}
		if identity == "YES" {
			continue
		}
		spec := ingest.ColumnSpec{Name: name, Nullable: nullable == "YES"}
		if maxLen.Valid && maxLen.Int32 > 0 {
			spec.MaxLength = int(maxLen.Int32)
		}
		schema.Columns = append(schema.Columns, spec)
	}
	if err := rows.Err(); err != nil {
		return ingest.TargetSchema{}, fmt.Errorf("read columns of %s.%s: %w", database, table, err)
	}

	if len(schema.Columns) == 0 {
		return ingest.TargetSchema{}, fmt.Errorf("%s.%s: %w", database, table, ingest.ErrSchemaNotFound)
	}
	return schema, nil
}

// Write appends the table's rows inside a single transaction. Any row
// failure rolls the whole file back; files already committed are not
// affected. Zero rows is a no-op success.
func (p *Postgres) Write(ctx context.Context, database, table string, t ingest.ConformantTable) (int, error) {
	if database != p.database {
		return 0, fmt.Errorf("catalog serves database %q, not %q", p.database, database)
	}
	if len(t.Rows) == 0 {
		return 0, nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := insertStatement(p.tableSchema, table, t.Columns)
	for i, row := range t.Rows {
		if _, err := tx.Exec(ctx, stmt, rowArgs(row)...); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(t.Rows), nil
}

// insertStatement builds the parameterized INSERT for one destination
// table. Identifiers are sanitized through pgx; only placeholders carry
// file data.
func insertStatement(tableSchema, table string, columns []string) string {
	idents := make([]string, len(columns))
	places := make([]string, len(columns))
	for i, c := range columns {
		idents[i] = pgx.Identifier{c}.Sanitize()
		places[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{tableSchema, table}.Sanitize(),
		strings.Join(idents, ", "),
		strings.Join(places, ", "))
}

// rowArgs maps the reconciler's empty marker to SQL NULL. Non-nullable
// columns reject it there, which is exactly the constraint violation
// the runner records as a write failure.
func rowArgs(row []string) []any {
	args := make([]any, len(row))
	for i, v := range row {
		if v == "" {
			args[i] = nil
		} else {
			args[i] = v
		}
	}
	return args
}
