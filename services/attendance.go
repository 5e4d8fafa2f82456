package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"attendance-tracker/models"
	"attendance-tracker/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoStudents = errors.New("no students found in batch")

type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

// Percentage is the share of a subject's lectures the student attended, counting only
// lectures that hold an attendance record for that student. Zero lectures yields 0.
func (s *AttendanceService) Percentage(ctx context.Context, studentID, subjectID uint) (float64, error) {
	var result struct {
		Total    int64
		Attended int64
	}
	err := s.DB.WithContext(ctx).Table("lectures").
		Select("COUNT(lectures.id) AS total, COALESCE(SUM(CASE WHEN attendance.status = ? THEN 1 ELSE 0 END), 0) AS attended", true).
		Joins("JOIN attendance ON attendance.lecture_id = lectures.id").
		Where("lectures.subject_id = ? AND attendance.student_id = ?", subjectID, studentID).
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("attendance percentage: %w", err)
	}

	if result.Total == 0 {
		return 0, nil
	}
	return utils.Round2(float64(result.Attended) / float64(result.Total) * 100), nil
}

type ReportRow struct {
	Rank             int
	StudentName      string
	EnrollmentNumber string
	Percentage       float64
}

// Report ranks every student of a batch by attendance percentage in a subject.
// Equal percentages keep enrollment-number order.
func (s *AttendanceService) Report(ctx context.Context, subjectID, batchID uint) ([]ReportRow, error) {
	students, err := s.BatchStudents(ctx, batchID)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(students))
	for _, st := range students {
		pct, err := s.Percentage(ctx, st.ID, subjectID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ReportRow{
			StudentName:      st.StudentName,
			EnrollmentNumber: st.EnrollmentNumber,
			Percentage:       pct,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Percentage > rows[j].Percentage
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (s *AttendanceService) BatchStudents(ctx context.Context, batchID uint) ([]models.Student, error) {
	var students []models.Student
	err := s.DB.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("enrollment_number asc").
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("students of batch %d: %w", batchID, err)
	}
	return students, nil
}

// Existing maps student id to recorded status for a lecture.
func (s *AttendanceService) Existing(ctx context.Context, lectureID uint) (map[uint]bool, error) {
	var records []models.Attendance
	if err := s.DB.WithContext(ctx).Where("lecture_id = ?", lectureID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("attendance of lecture %d: %w", lectureID, err)
	}
	out := make(map[uint]bool, len(records))
	for _, r := range records {
		out[r.StudentID] = r.Status
	}
	return out, nil
}

type MarkResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// Mark reconciles the submitted presence set with stored attendance for the lecture's
// batch: missing records are created, changed ones updated, the rest left alone.
// Students absent from present are recorded as absent.
func (s *AttendanceService) Mark(ctx context.Context, lecture *models.Lecture, present map[uint]bool) (MarkResult, error) {
	var res MarkResult

	students, err := s.BatchStudents(ctx, lecture.BatchID)
	if err != nil {
		return res, err
	}
	if len(students) == 0 {
		return res, ErrNoStudents
	}
	existing, err := s.Existing(ctx, lecture.ID)
	if err != nil {
		return res, err
	}

	var creates, updates []models.Attendance
	for _, st := range students {
		status := present[st.ID]
		prev, ok := existing[st.ID]
		switch {
		case !ok:
			creates = append(creates, models.Attendance{LectureID: lecture.ID, StudentID: st.ID, Status: status})
		case prev != status:
			updates = append(updates, models.Attendance{LectureID: lecture.ID, StudentID: st.ID, Status: status})
		default:
			res.Unchanged++
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(creates) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "lecture_id"}, {Name: "student_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"status"}),
			}).Create(&creates).Error
			if err != nil {
				return err
			}
		}
		for _, u := range updates {
			err := tx.Model(&models.Attendance{}).
				Where("lecture_id = ? AND student_id = ?", u.LectureID, u.StudentID).
				Update("status", u.Status).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return MarkResult{}, fmt.Errorf("mark attendance for lecture %d: %w", lecture.ID, err)
	}

	res.Created = len(creates)
	res.Updated = len(updates)
	return res, nil
}
