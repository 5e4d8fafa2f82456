package services

import (
	"context"
	"testing"
	"time"

	"attendance-tracker/models"
	"attendance-tracker/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPrune(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)
	bob := testutil.CreateStudent(t, db, "Bob", "0801CS221002", batch)

	now := time.Now()
	empty := testutil.CreateLecture(t, db, subject, teacher, batch, now)
	absent := testutil.CreateLecture(t, db, subject, teacher, batch, now.Add(time.Minute))
	testutil.Mark(t, db, absent, alice, false)
	testutil.Mark(t, db, absent, bob, false)
	kept := testutil.CreateLecture(t, db, subject, teacher, batch, now.Add(2*time.Minute))
	testutil.Mark(t, db, kept, alice, false)
	testutil.Mark(t, db, kept, bob, true)

	svc := NewLectureService(db)
	n, err := svc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lectures, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, lectures, 1)
	assert.Equal(t, kept.ID, lectures[0].ID)

	var orphans int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("lecture_id IN ?", []uint{empty.ID, absent.ID}).Count(&orphans).Error)
	assert.Zero(t, orphans)

	n, err = svc.Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListOrdersLatestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)

	now := time.Now()
	older := testutil.CreateLecture(t, db, subject, teacher, batch, now.Add(-time.Hour))
	newer := testutil.CreateLecture(t, db, subject, teacher, batch, now)

	lectures, err := NewLectureService(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, lectures, 2)
	assert.Equal(t, newer.ID, lectures[0].ID)
	assert.Equal(t, older.ID, lectures[1].ID)
	assert.Equal(t, "Networks", lectures[0].Subject.SubjectName)
	assert.Equal(t, "Teacher", lectures[0].Teacher.Name)
	assert.Equal(t, "CS-2022", lectures[0].Batch.Name)
}

func TestCreateFindDelete(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewLectureService(db)

	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)

	lecture, err := svc.Create(ctx, subject.ID, teacher.ID, batch.ID)
	require.NoError(t, err)
	assert.NotZero(t, lecture.ID)
	testutil.Mark(t, db, lecture, alice, true)

	found, err := svc.Find(ctx, lecture.ID)
	require.NoError(t, err)
	assert.Equal(t, "Networks", found.Subject.SubjectName)

	require.NoError(t, svc.Delete(ctx, lecture.ID))

	_, err = svc.Find(ctx, lecture.ID)
	assert.ErrorIs(t, err, ErrLectureNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, lecture.ID), ErrLectureNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPruneKeepsLectureMarkedDuringScan(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)

	now := time.Now()
	testutil.CreateLecture(t, db, subject, teacher, batch, now)
	marked := testutil.CreateLecture(t, db, subject, teacher, batch, now.Add(time.Minute))

	// A present mark lands right after the prunable lectures are selected.
	done := false
	err := db.Callback().Query().After("gorm:query").Register("test:mark_after_scan", func(tx *gorm.DB) {
		if done || tx.Statement.Table != "lectures" {
			return
		}
		done = true
		a := &models.Attendance{LectureID: marked.ID, StudentID: alice.ID, Status: true}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(a).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)

	n, err := NewLectureService(db).Prune(ctx)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, 1, n)

	var ids []uint
	require.NoError(t, db.Model(&models.Lecture{}).Pluck("id", &ids).Error)
	assert.Equal(t, []uint{marked.ID}, ids)

	var present int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("lecture_id = ? AND status = ?", marked.ID, true).Count(&present).Error)
	assert.EqualValues(t, 1, present)
}
