package services

import (
	"context"
	"testing"
	"time"

	"attendance-tracker/models"
	"attendance-tracker/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewAttendanceService(db)

	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	other := testutil.CreateSubject(t, db, "Compilers", teacher)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)
	bob := testutil.CreateStudent(t, db, "Bob", "0801CS221002", batch)

	t.Run("no lectures is zero", func(t *testing.T) {
		pct, err := svc.Percentage(ctx, alice.ID, subject.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, pct)
	})

	now := time.Now()
	for i, present := range []bool{true, true, false, true} {
		l := testutil.CreateLecture(t, db, subject, teacher, batch, now.Add(time.Duration(i)*time.Hour))
		testutil.Mark(t, db, l, alice, present)
		testutil.Mark(t, db, l, bob, i == 0)
	}
	// other subjects never count
	l := testutil.CreateLecture(t, db, other, teacher, batch, now)
	testutil.Mark(t, db, l, alice, false)

	t.Run("three of four", func(t *testing.T) {
		pct, err := svc.Percentage(ctx, alice.ID, subject.ID)
		require.NoError(t, err)
		assert.Equal(t, 75.0, pct)
	})

	t.Run("one of four", func(t *testing.T) {
		pct, err := svc.Percentage(ctx, bob.ID, subject.ID)
		require.NoError(t, err)
		assert.Equal(t, 25.0, pct)
	})

	t.Run("other subject", func(t *testing.T) {
		pct, err := svc.Percentage(ctx, alice.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, pct)
	})
}

func TestPercentageRoundsToTwoDecimals(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)

	for i, present := range []bool{true, false, false} {
		l := testutil.CreateLecture(t, db, subject, teacher, batch, time.Now().Add(time.Duration(i)*time.Minute))
		testutil.Mark(t, db, l, alice, present)
	}

	pct, err := NewAttendanceService(db).Percentage(context.Background(), alice.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, pct)
}

func TestReportRanksByPercentage(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	carol := testutil.CreateStudent(t, db, "Carol", "0801CS221003", batch)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)
	bob := testutil.CreateStudent(t, db, "Bob", "0801CS221002", batch)

	l1 := testutil.CreateLecture(t, db, subject, teacher, batch, time.Now())
	l2 := testutil.CreateLecture(t, db, subject, teacher, batch, time.Now().Add(time.Hour))
	testutil.Mark(t, db, l1, alice, true)
	testutil.Mark(t, db, l2, alice, false)
	testutil.Mark(t, db, l1, bob, true)
	testutil.Mark(t, db, l2, bob, true)
	testutil.Mark(t, db, l1, carol, false)
	testutil.Mark(t, db, l2, carol, true)

	rows, err := NewAttendanceService(db).Report(context.Background(), subject.ID, batch.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ReportRow{Rank: 1, StudentName: "Bob", EnrollmentNumber: "0801CS221002", Percentage: 100}, rows[0])
	// ties keep enrollment order
	assert.Equal(t, "Alice", rows[1].StudentName)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "Carol", rows[2].StudentName)
	assert.Equal(t, 50.0, rows[2].Percentage)
}

func TestMark(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewAttendanceService(db)

	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "CS-2022")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	alice := testutil.CreateStudent(t, db, "Alice", "0801CS221001", batch)
	bob := testutil.CreateStudent(t, db, "Bob", "0801CS221002", batch)
	lecture := testutil.CreateLecture(t, db, subject, teacher, batch, time.Now())

	res, err := svc.Mark(ctx, lecture, map[uint]bool{alice.ID: true})
	require.NoError(t, err)
	assert.Equal(t, MarkResult{Created: 2}, res)

	status, err := svc.Existing(ctx, lecture.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{alice.ID: true, bob.ID: false}, status)

	res, err = svc.Mark(ctx, lecture, map[uint]bool{alice.ID: true, bob.ID: true})
	require.NoError(t, err)
	assert.Equal(t, MarkResult{Updated: 1, Unchanged: 1}, res)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("lecture_id = ?", lecture.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	status, err = svc.Existing(ctx, lecture.ID)
	require.NoError(t, err)
	assert.True(t, status[bob.ID])
}

func TestMarkEmptyBatch(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "Teacher", "t@example.com", "secret1", false)
	batch := testutil.CreateBatch(t, db, "Empty")
	subject := testutil.CreateSubject(t, db, "Networks", teacher)
	lecture := testutil.CreateLecture(t, db, subject, teacher, batch, time.Now())

	_, err := NewAttendanceService(db).Mark(context.Background(), lecture, nil)
	assert.ErrorIs(t, err, ErrNoStudents)
}
