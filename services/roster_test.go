package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"attendance-tracker/models"
	"attendance-tracker/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterImport(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	old := testutil.CreateBatch(t, db, "CS-2021")
	batch := testutil.CreateBatch(t, db, "CS-2022")
	testutil.CreateStudent(t, db, "Old Name", "0801CS221001", old)

	csv := "\ufeffNo.,Name,Enrollment Number\n" +
		"1,Alice,0801cs221001\n" +
		"2,Bob,0801CS221002\n" +
		"3,,0801CS221003\n" +
		"4,Dave,12345\n" +
		"5,Bob Again,0801CS221002\n" +
		"6\n"

	res, err := NewRosterService(db).Import(ctx, batch.ID, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Skipped: 4}, res)

	var students []models.Student
	require.NoError(t, db.Order("enrollment_number").Find(&students).Error)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice", students[0].StudentName)
	assert.Equal(t, batch.ID, students[0].BatchID)
	assert.Equal(t, "0801CS221002", students[1].EnrollmentNumber)
}

func TestRosterImportNeedsHeader(t *testing.T) {
	db := testutil.NewDB(t)
	batch := testutil.CreateBatch(t, db, "CS-2022")

	_, err := NewRosterService(db).Import(context.Background(), batch.ID, strings.NewReader("a,b\n1,2\n"))
	assert.ErrorIs(t, err, ErrRosterHeader)
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReportCSV(&buf, []ReportRow{
		{Rank: 1, StudentName: "Bob", EnrollmentNumber: "0801CS221002", Percentage: 100},
		{Rank: 2, StudentName: "Smith, Alice", EnrollmentNumber: "0801CS221001", Percentage: 33.33},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"rank,student_name,enrollment_number,percentage\n"+
			"1,Bob,0801CS221002,100.00\n"+
			"2,\"Smith, Alice\",0801CS221001,33.33\n",
		buf.String())
}

func TestReportFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "attendance_Computer_Networks_CS-2022_20240309.csv", ReportFilename("Computer Networks", "CS-2022", day))
}
