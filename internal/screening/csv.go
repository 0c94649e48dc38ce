package screening

import (
	"encoding/csv"
	"io"
	"strings"
)

var csvHeader = []string{"name", "status", "message", "skills", "experience", "education"}

// WriteCSV serializes rows in the fixed tabular layout: name, status,
// message, skills (comma-joined), experience, education.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.FileName,
			row.Status,
			row.Message,
			strings.Join(row.Skills, ", "),
			row.Experience,
			row.Education,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
