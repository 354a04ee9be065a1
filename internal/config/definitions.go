package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Kinetic-Blast/SQL-Import/internal/ingest"
)

// definitionsFile is the YAML document shape:
//
//	imports:
//	  - directory: /data/drops/{2006_01}
//	    pattern: "AccountSummary_*.txt"
//	    delimiter: tab
//	    database: exampledb
//	    table: account_summary
type definitionsFile struct {
	Imports []ingest.Definition `yaml:"imports"`
}

// LoadDefinitions reads the ordered import definitions from a YAML file.
// Delimiters accept the spellings "tab" and "\t" for a tab character and
// default to a comma when omitted.
func LoadDefinitions(path string) ([]ingest.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}

	var doc definitionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse definitions %s: %w", path, err)
	}
	if len(doc.Imports) == 0 {
		return nil, fmt.Errorf("definitions %s: no imports listed", path)
	}

	for i := range doc.Imports {
		def := &doc.Imports[i]
		def.Delimiter = normalizeDelimiter(def.Delimiter)
		if err := validateDefinition(*def); err != nil {
			return nil, fmt.Errorf("definitions %s: import %d: %w", path, i+1, err)
		}
	}
	return doc.Imports, nil
}

func normalizeDelimiter(d string) string {
	switch d {
	case "":
		return ","
	case "tab", "TAB", `\t`:
		return "\t"
	default:
		return d
	}
}

func validateDefinition(def ingest.Definition) error {
	switch {
	case def.Directory == "":
		return fmt.Errorf("directory is required")
	case def.Pattern == "":
		return fmt.Errorf("pattern is required")
	case def.Database == "":
		return fmt.Errorf("database is required")
	case def.Table == "":
		return fmt.Errorf("table is required")
	}
	return nil
}
