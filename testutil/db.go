// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"attendance-tracker/initializers"
	"attendance-tracker/models"
	"attendance-tracker/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, initializers.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, admin bool) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, Password: hash, IsAdmin: admin}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateBatch(t *testing.T, db *gorm.DB, name string) *models.Batch {
	t.Helper()
	b := &models.Batch{Name: name}
	require.NoError(t, db.Create(b).Error)
	return b
}

func CreateStudent(t *testing.T, db *gorm.DB, name, enrollment string, batch *models.Batch) *models.Student {
	t.Helper()
	s := &models.Student{StudentName: name, EnrollmentNumber: enrollment, BatchID: batch.ID}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateSubject(t *testing.T, db *gorm.DB, name string, teacher *models.User) *models.Subject {
	t.Helper()
	s := &models.Subject{SubjectName: name, TeacherID: teacher.ID}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateLecture(t *testing.T, db *gorm.DB, subject *models.Subject, teacher *models.User, batch *models.Batch, at time.Time) *models.Lecture {
	t.Helper()
	l := &models.Lecture{SubjectID: subject.ID, TeacherID: teacher.ID, BatchID: batch.ID, Timestamp: at}
	require.NoError(t, db.Create(l).Error)
	return l
}

func Mark(t *testing.T, db *gorm.DB, lecture *models.Lecture, student *models.Student, present bool) {
	t.Helper()
	a := &models.Attendance{LectureID: lecture.ID, StudentID: student.ID, Status: present}
	require.NoError(t, db.Create(a).Error)
}
