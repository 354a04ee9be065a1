package catalog

import (
	"context"
	"fmt"

	"github.com/Kinetic-Blast/SQL-Import/internal/ingest"
)

// Set routes catalog calls by database name. Import definitions may
// target several databases; each gets its own pool-backed Postgres
// catalog, keyed exactly as the definitions spell the name.
type Set map[string]ingest.Catalog

// Schema dispatches to the catalog for database.
func (s Set) Schema(ctx context.Context, database, table string) (ingest.TargetSchema, error) {
	cat, ok := s[database]
	if !ok {
		return ingest.TargetSchema{}, fmt.Errorf("no catalog configured for database %q", database)
	}
	return cat.Schema(ctx, database, table)
}

// Write dispatches to the catalog for database.
func (s Set) Write(ctx context.Context, database, table string, t ingest.ConformantTable) (int, error) {
	cat, ok := s[database]
	if !ok {
		return 0, fmt.Errorf("no catalog configured for database %q", database)
	}
	return cat.Write(ctx, database, table, t)
}
