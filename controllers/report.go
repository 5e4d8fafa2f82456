package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"attendance-tracker/models"
	"attendance-tracker/services"
	"attendance-tracker/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (ctl *Controller) ShowReport(c *gin.Context) {
	subjects, batches, ok := ctl.reportChoices(c)
	if !ok {
		return
	}
	web.Render(c, http.StatusOK, "report.html", gin.H{
		"Title": "Attendance Report", "Subjects": subjects, "Batches": batches,
		"SubjectID": uint(0), "BatchID": uint(0), "Submitted": false, "Rows": nil,
	})
}

// Report ranks a batch's students by attendance percentage in a subject.
func (ctl *Controller) Report(c *gin.Context) {
	subjects, batches, ok := ctl.reportChoices(c)
	if !ok {
		return
	}

	var form LectureForm
	bindErr := c.ShouldBind(&form)
	if bindErr == nil && (!hasSubject(subjects, form.Subject) || !hasBatch(batches, form.Batch)) {
		bindErr = errNotAChoice
	}
	data := gin.H{
		"Title": "Attendance Report", "Subjects": subjects, "Batches": batches,
		"SubjectID": form.Subject, "BatchID": form.Batch, "Submitted": false, "Rows": nil,
	}
	if bindErr != nil {
		flashChoiceErrors(c, bindErr)
		web.Render(c, http.StatusOK, "report.html", data)
		return
	}

	rows, err := ctl.Attendance.Report(c.Request.Context(), form.Subject, form.Batch)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	data["Submitted"] = true
	data["Rows"] = rows
	web.Render(c, http.StatusOK, "report.html", data)
}

// ExportReport streams the same ranking as a CSV download.
func (ctl *Controller) ExportReport(c *gin.Context) {
	subjectID, okSubject := parseID(c.Query("subject"))
	batchID, okBatch := parseID(c.Query("batch"))
	if !okSubject || !okBatch {
		web.Error(c, http.StatusBadRequest, "Choose a subject and a batch to export.")
		return
	}
	ctx := c.Request.Context()

	var subject models.Subject
	var batch models.Batch
	for _, q := range []struct {
		dest any
		id   uint
	}{{&subject, subjectID}, {&batch, batchID}} {
		err := ctl.DB.WithContext(ctx).First(q.dest, q.id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctl.NotFound(c)
			return
		}
		if err != nil {
			ctl.serverError(c, err)
			return
		}
	}

	rows, err := ctl.Attendance.Report(ctx, subject.ID, batch.ID)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.WriteReportCSV(&buf, rows); err != nil {
		ctl.serverError(c, err)
		return
	}

	filename := services.ReportFilename(subject.SubjectName, batch.Name, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (ctl *Controller) reportChoices(c *gin.Context) ([]models.Subject, []models.Batch, bool) {
	subjects, err := ctl.allSubjects(c)
	if err != nil {
		ctl.serverError(c, err)
		return nil, nil, false
	}
	batches, err := ctl.allBatches(c)
	if err != nil {
		ctl.serverError(c, err)
		return nil, nil, false
	}
	return subjects, batches, true
}
