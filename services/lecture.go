package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"attendance-tracker/models"

	"gorm.io/gorm"
)

var ErrLectureNotFound = errors.New("lecture not found")

type LectureService struct {
	DB *gorm.DB
}

func NewLectureService(db *gorm.DB) *LectureService {
	return &LectureService{DB: db}
}

// List returns every lecture, latest first, with subject, teacher and batch loaded.
func (s *LectureService) List(ctx context.Context) ([]models.Lecture, error) {
	var lectures []models.Lecture
	err := s.DB.WithContext(ctx).
		Preload("Subject").Preload("Teacher").Preload("Batch").
		Order("timestamp desc").Order("id desc").
		Find(&lectures).Error
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	return lectures, nil
}

func (s *LectureService) Find(ctx context.Context, id uint) (*models.Lecture, error) {
	var lecture models.Lecture
	err := s.DB.WithContext(ctx).Preload("Subject").Preload("Batch").First(&lecture, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLectureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lecture %d: %w", id, err)
	}
	return &lecture, nil
}

func (s *LectureService) Create(ctx context.Context, subjectID, teacherID, batchID uint) (*models.Lecture, error) {
	lecture := models.Lecture{
		SubjectID: subjectID,
		TeacherID: teacherID,
		BatchID:   batchID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&lecture).Error; err != nil {
		return nil, fmt.Errorf("create lecture: %w", err)
	}
	return &lecture, nil
}

// Delete removes a lecture and its attendance rows.
func (s *LectureService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lecture_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return fmt.Errorf("delete attendance of lecture %d: %w", id, err)
		}
		res := tx.Delete(&models.Lecture{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete lecture %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLectureNotFound
		}
		return nil
	})
}

// Prune deletes lectures that have no attendance rows or whose rows are all absent,
// together with their attendance, in one transaction. The deletes re-check that no
// present row exists, so a mark committed after the scan keeps its lecture.
// It returns how many lectures went.
func (s *LectureService) Prune(ctx context.Context) (int, error) {
	var pruned int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&models.Lecture{}).
			Joins("LEFT JOIN attendance ON attendance.lecture_id = lectures.id").
			Group("lectures.id").
			Having("COUNT(attendance.id) = 0 OR SUM(CASE WHEN attendance.status = ? THEN 1 ELSE 0 END) = 0", true).
			Pluck("lectures.id", &ids).Error
		if err != nil {
			return fmt.Errorf("find prunable lectures: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		err = tx.Where("lecture_id IN ?", ids).
			Where("NOT EXISTS (SELECT 1 FROM attendance AS present WHERE present.lecture_id = attendance.lecture_id AND present.status = ?)", true).
			Delete(&models.Attendance{}).Error
		if err != nil {
			return fmt.Errorf("delete absent attendance: %w", err)
		}
		res := tx.Where("id IN ?", ids).
			Where("NOT EXISTS (SELECT 1 FROM attendance WHERE attendance.lecture_id = lectures.id)").
			Delete(&models.Lecture{})
		if res.Error != nil {
			return fmt.Errorf("delete lectures: %w", res.Error)
		}
		pruned = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune lectures: %w", err)
	}

	if pruned > 0 {
		log.Printf("[CLEANUP] pruned %d empty or fully absent lectures", pruned)
	}
	return int(pruned), nil
}
