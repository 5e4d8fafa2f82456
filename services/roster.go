package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"attendance-tracker/models"
	"attendance-tracker/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRosterHeader = errors.New("roster file needs a name and an enrollment number column")

type ImportResult struct {
	Imported int
	Skipped  int
}

type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// Import reads a roster CSV and upserts every valid row into the batch, keyed by
// enrollment number. Rows with a blank name or malformed enrollment number are skipped.
func (s *RosterService) Import(ctx context.Context, batchID uint, r io.Reader) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return res, fmt.Errorf("read roster csv: %w", err)
	}
	if len(records) < 2 {
		return res, nil
	}

	nameIndex, idIndex := -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(utils.CleanHeader(col)) {
		case "name", "student_name", "student name":
			nameIndex = i
		case "enrollment", "enrollment_number", "enrollment number", "id":
			idIndex = i
		}
	}
	if nameIndex == -1 || idIndex == -1 {
		return res, ErrRosterHeader
	}

	var students []models.Student
	seen := make(map[string]bool)
	for _, row := range records[1:] {
		if len(row) <= nameIndex || len(row) <= idIndex {
			res.Skipped++
			continue
		}
		name := strings.TrimSpace(row[nameIndex])
		enrollment := strings.ToUpper(strings.TrimSpace(row[idIndex]))
		if name == "" || !utils.ValidEnrollment(enrollment) || seen[enrollment] {
			res.Skipped++
			continue
		}
		seen[enrollment] = true
		students = append(students, models.Student{
			StudentName:      name,
			EnrollmentNumber: enrollment,
			BatchID:          batchID,
		})
	}
	if len(students) == 0 {
		return res, nil
	}

	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"student_name", "batch_id", "updated_at"}),
	}).Create(&students).Error
	if err != nil {
		return res, fmt.Errorf("upsert roster: %w", err)
	}

	res.Imported = len(students)
	log.Printf("[INFO] roster import into batch %d: %d imported, %d skipped", batchID, res.Imported, res.Skipped)
	return res, nil
}
