package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/models"
)

// WriteCSV streams the raw responses of a survey as CSV: one row per
// response, fixed metadata columns followed by one column per field with
// answers normalized to display labels.
func WriteCSV(survey models.Survey, responses []models.ResponseRecord, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"response_id", "submitted_at", "latitude", "longitude", "surveyor_id", "badge_id", "sync_status"}
	for _, f := range survey.Fields {
		if f.Type == models.FieldNote {
			continue
		}
		header = append(header, f.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range responses {
		row := []string{
			r.ID.String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
			"", "", "", "",
			string(r.SyncStatus),
		}
		if r.Location != nil {
			row[2] = strconv.FormatFloat(r.Location.Latitude, 'f', -1, 64)
			row[3] = strconv.FormatFloat(r.Location.Longitude, 'f', -1, 64)
		}
		if r.Surveyor != nil {
			row[4] = r.Surveyor.SurveyorID
			row[5] = r.Surveyor.BadgeID
		}

		for _, f := range survey.Fields {
			if f.Type == models.FieldNote {
				continue
			}
			v, ok := r.Answers[f.ID]
			if !ok || v.IsEmpty() {
				row = append(row, "")
				continue
			}
			if v.Kind == models.AnswerList {
				joined := ""
				for i, item := range v.List {
					if i > 0 {
						joined += "; "
					}
					joined += analytics.NormalizeLabel(f, item)
				}
				row = append(row, joined)
				continue
			}
			row = append(row, analytics.NormalizeLabel(f, v.String()))
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
