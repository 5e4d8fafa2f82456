package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// WriteReportCSV renders report rows as CSV with a header line.
func WriteReportCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "student_name", "enrollment_number", "percentage"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			r.StudentName,
			r.EnrollmentNumber,
			strconv.FormatFloat(r.Percentage, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportFilename names an export after its subject, batch and day.
func ReportFilename(subject, batch string, now time.Time) string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
				return r
			}
			return '_'
		}, s)
	}
	return fmt.Sprintf("attendance_%s_%s_%s.csv", clean(subject), clean(batch), now.Format("20060102"))
}
