package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the report model as a spreadsheet workbook with an
// overview sheet, one block per field summary, the submission timeline and
// the ranked geographic zones.
func WriteXLSX(m Model, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeOverview(f, m); err != nil {
		return err
	}
	if err := writeFieldSheet(f, m); err != nil {
		return err
	}
	if err := writeZoneSheet(f, m); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeOverview(f *excelize.File, m Model) error {
	rows := [][]interface{}{
		{m.Customization.Title},
		{m.Customization.Subtitle},
		{"Organization", m.Customization.Organization},
		{"Author", m.Customization.Author},
		{"Generated", m.GeneratedAt.Format("2006-01-02 15:04 UTC")},
	}
	if m.Customization.Notes != "" {
		rows = append(rows, []interface{}{"Notes", m.Customization.Notes})
	}
	rows = append(rows, [][]interface{}{
		{},
		{"Total responses", m.Stats.Total},
		{"Completion rate", fmt.Sprintf("%d%%", m.Stats.CompletionRate)},
		{"Geolocated", fmt.Sprintf("%d (%d%%)", m.Stats.GeolocatedCount, m.Stats.LocationRate)},
		{"Active days", m.Stats.ActiveDays},
		{"Avg responses per active day", m.Stats.AvgPerActiveDay},
		{"Peak hour", m.Stats.PeakHour},
		{"Peak weekday", m.Stats.PeakWeekday},
		{},
		{"Insights"},
	}...)
	for _, in := range m.Insights {
		rows = append(rows, []interface{}{string(in.Severity), in.Message, in.Detail})
	}
	if m.Narrative != nil {
		rows = append(rows, []interface{}{}, []interface{}{"Summary", m.Narrative.Summary})
		for _, tr := range m.Narrative.Trends {
			rows = append(rows, []interface{}{"Trend", tr})
		}
		for _, rec := range m.Narrative.Recommendations {
			rows = append(rows, []interface{}{"Recommendation", rec})
		}
	}
	rows = append(rows, []interface{}{}, []interface{}{"Timeline"}, []interface{}{"Date", "Responses"})
	for _, p := range m.Stats.Timeline {
		rows = append(rows, []interface{}{p.Date, p.Count})
	}

	return writeRows(f, "Overview", rows)
}

func writeFieldSheet(f *excelize.File, m Model) error {
	if _, err := f.NewSheet("Fields"); err != nil {
		return fmt.Errorf("fields sheet: %w", err)
	}

	rows := make([][]interface{}, 0)
	for _, fa := range m.Fields {
		rows = append(rows, []interface{}{fa.Label, string(fa.Type), fmt.Sprintf("%d answered", fa.Answered)})
		switch {
		case fa.Categories != nil:
			rows = append(rows, []interface{}{"", "Option", "Count", "Percentage"})
			for _, c := range fa.Categories {
				rows = append(rows, []interface{}{"", c.Label, c.Count, fmt.Sprintf("%d%%", c.Percentage)})
			}
		case fa.Numeric != nil:
			n := fa.Numeric
			rows = append(rows, []interface{}{"", "Average", n.Average})
			rows = append(rows, []interface{}{"", "Min", n.Min})
			rows = append(rows, []interface{}{"", "Max", n.Max})
			rows = append(rows, []interface{}{"", "Samples", n.Count})
		}
		rows = append(rows, []interface{}{})
	}

	return writeRows(f, "Fields", rows)
}

func writeZoneSheet(f *excelize.File, m Model) error {
	if _, err := f.NewSheet("Zones"); err != nil {
		return fmt.Errorf("zones sheet: %w", err)
	}

	rows := [][]interface{}{{"Zone", "Latitude", "Longitude", "Responses", "Share"}}
	for _, z := range m.Zones {
		rows = append(rows, []interface{}{z.Key, z.Latitude, z.Longitude, z.Count, fmt.Sprintf("%d%%", z.Percentage)})
	}

	return writeRows(f, "Zones", rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
