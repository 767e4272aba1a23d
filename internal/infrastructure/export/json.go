package export

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/watchlens/scraper/internal/domain"
)

// JSONExporter writes rows as a JSON array of objects, 4-space indented
type JSONExporter struct {
	path string
}

// NewJSONExporter creates an exporter for path
func NewJSONExporter(path string) *JSONExporter {
	return &JSONExporter{path: path}
}

// Path returns the destination file
func (e *JSONExporter) Path() string {
	return e.path
}

// Export writes rows to the file. Absent values are encoded as null and an
// empty run produces [].
func (e *JSONExporter) Export(rows []domain.OutputRow) error {
	if rows == nil {
		rows = []domain.OutputRow{}
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("json: create file %q: %w", e.path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("json: encode rows: %w", err)
	}

	log.Printf("[EXPORT] Wrote %d rows to %s", len(rows), e.path)
	return nil
}
