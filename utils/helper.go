package utils

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// CleanHeader strips a UTF-8 BOM and surrounding whitespace from a CSV header cell.
func CleanHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.TrimSpace(h)
}

// Inc is a template helper for 1-based numbering.
func Inc(i int) int {
	return i + 1
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// OwnedBy scopes a subject or lecture query to one teacher.
func OwnedBy(teacherID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("teacher_id = ?", teacherID)
	}
}
