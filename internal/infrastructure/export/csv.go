package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/watchlens/scraper/internal/domain"
)

// CSVExporter writes rows to a CSV file with a header in column order
type CSVExporter struct {
	path string
}

// NewCSVExporter creates an exporter for path. The file is created or
// truncated on Export; parent directories are created as needed.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Path returns the destination file
func (e *CSVExporter) Path() string {
	return e.path
}

// Export writes the header and one line per row. Absent values are empty cells.
func (e *CSVExporter) Export(rows []domain.OutputRow) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", e.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Strings()); err != nil {
			return fmt.Errorf("csv: write row %d: %w", row.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}

	log.Printf("[EXPORT] Wrote %d rows to %s", len(rows), e.path)
	return nil
}
