package export

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/watchlens/scraper/internal/domain"
)

// tableColumns are the Columns indexes shown on the console
var tableColumns = []int{0, 1, 5, 8, 11, 12, 13, 14}

// TableExporter prints a condensed view of the rows as a console table
type TableExporter struct {
	out      io.Writer
	maxTitle int
}

// NewTableExporter renders to out, or stdout when out is nil
func NewTableExporter(out io.Writer) *TableExporter {
	if out == nil {
		out = os.Stdout
	}
	return &TableExporter{out: out, maxTitle: 40}
}

// Export renders the rows. It never fails.
func (e *TableExporter) Export(rows []domain.OutputRow) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(e.out)

	header := table.Row{}
	for _, idx := range tableColumns {
		header = append(header, domain.Columns[idx])
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: domain.Columns[1], WidthMax: e.maxTitle},
	})

	for _, row := range rows {
		cells := row.Strings()
		r := make(table.Row, 0, len(tableColumns))
		for _, idx := range tableColumns {
			r = append(r, cells[idx])
		}
		t.AppendRow(r)
	}

	t.AppendFooter(table.Row{"", "Lots", len(rows)})
	t.Render()
	return nil
}
