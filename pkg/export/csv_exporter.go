package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// ScheduleRow is one flattened meeting for CSV export, ordered by week,
// weekday and start time by the caller.
type ScheduleRow struct {
	Week     int    `csv:"week"`
	Weekday  string `csv:"weekday"`
	Start    string `csv:"start"`
	End      string `csv:"end"`
	Course   string `csv:"course"`
	Kind     string `csv:"kind"`
	Group    string `csv:"group"`
	Programs string `csv:"programs"`
	Teacher  string `csv:"teacher"`
	Rooms    string `csv:"rooms"`
}

// CSVExporter renders schedule rows into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the rows.
func (e *CSVExporter) Render(rows []ScheduleRow) ([]byte, error) {
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return data, nil
}
