package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"attendance-tracker/models"
	"attendance-tracker/services"
	"attendance-tracker/utils"
	"attendance-tracker/web"

	"github.com/gin-gonic/gin"
)

// recentLectures is how many lectures the home page shows; the rest are "older".
const recentLectures = 5

// Home prunes empty or fully absent lectures, then lists the latest ones.
func (ctl *Controller) Home(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := ctl.Lectures.Prune(ctx); err != nil {
		ctl.serverError(c, err)
		return
	}
	lectures, err := ctl.Lectures.List(ctx)
	if err != nil {
		ctl.serverError(c, err)
		return
	}

	shown := lectures[:min(recentLectures, len(lectures))]
	web.Render(c, http.StatusOK, "index.html", gin.H{
		"Title":    "Home",
		"Lectures": shown,
		"HasOlder": len(lectures) > recentLectures,
		"Older":    false,
	})
}

func (ctl *Controller) OlderLectures(c *gin.Context) {
	lectures, err := ctl.Lectures.List(c.Request.Context())
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "index.html", gin.H{
		"Title":    "Older Lectures",
		"Lectures": lectures[min(recentLectures, len(lectures)):],
		"HasOlder": false,
		"Older":    true,
	})
}

// LectureRedirect sends /lecture/:id to its attendance sheet.
func (ctl *Controller) LectureRedirect(c *gin.Context) {
	web.Redirect(c, "/mark-attendance?lecture_id="+c.Param("lecture_id"))
}

func (ctl *Controller) ShowNewLecture(c *gin.Context) {
	subjects, batches, err := ctl.lectureChoices(c)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "lecture.html", gin.H{
		"Title": "New Lecture", "Subjects": subjects, "Batches": batches,
		"SubjectID": uint(0), "BatchID": uint(0),
	})
}

// NewLecture records a lecture for one of the teacher's own subjects and moves
// straight on to marking attendance.
func (ctl *Controller) NewLecture(c *gin.Context) {
	user := web.CurrentUser(c)
	subjects, batches, err := ctl.lectureChoices(c)
	if err != nil {
		ctl.serverError(c, err)
		return
	}

	var form LectureForm
	bindErr := c.ShouldBind(&form)
	if bindErr == nil && (!hasSubject(subjects, form.Subject) || !hasBatch(batches, form.Batch)) {
		bindErr = errNotAChoice
	}
	if bindErr != nil {
		flashChoiceErrors(c, bindErr)
		web.Render(c, http.StatusOK, "lecture.html", gin.H{
			"Title": "New Lecture", "Subjects": subjects, "Batches": batches,
			"SubjectID": form.Subject, "BatchID": form.Batch,
		})
		return
	}

	lecture, err := ctl.Lectures.Create(c.Request.Context(), form.Subject, user.ID, form.Batch)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	web.AddFlash(c, web.FlashSuccess, "Lecture created successfully!")
	web.Redirect(c, fmt.Sprintf("/mark-attendance?lecture_id=%d", lecture.ID))
}

func (ctl *Controller) ShowMarkAttendance(c *gin.Context) {
	lecture, students, ok := ctl.attendanceSheet(c)
	if !ok {
		return
	}
	status, err := ctl.Attendance.Existing(c.Request.Context(), lecture.ID)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "mark_attendance.html", gin.H{
		"Title":    "Mark Attendance",
		"Lecture":  lecture,
		"Students": students,
		"Status":   status,
		"IsTaker":  lecture.TeacherID == web.CurrentUser(c).ID,
	})
}

// MarkAttendance stores the submitted sheet. A checked attendance_<id> box means present.
func (ctl *Controller) MarkAttendance(c *gin.Context) {
	lecture, _, ok := ctl.attendanceSheet(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		web.Error(c, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	present := make(map[uint]bool)
	for key, values := range c.Request.PostForm {
		raw, found := strings.CutPrefix(key, "attendance_")
		if !found {
			continue
		}
		if id, ok := parseID(raw); ok && len(values) > 0 {
			present[id] = values[0] == "on" || values[0] == "true"
		}
	}

	res, err := ctl.Attendance.Mark(c.Request.Context(), lecture, present)
	if errors.Is(err, services.ErrNoStudents) {
		web.AddFlash(c, web.FlashDanger, "No students found in the selected batch.")
		web.Redirect(c, "/")
		return
	}
	if err != nil {
		ctl.serverError(c, err)
		return
	}

	log.Printf("[INFO] lecture %d attendance: %d created, %d updated, %d unchanged",
		lecture.ID, res.Created, res.Updated, res.Unchanged)
	web.AddFlash(c, web.FlashSuccess, "Attendance marked successfully!")
	web.Redirect(c, "/")
}

// ConfirmDeleteLecture asks the taker to confirm; deletion itself needs a POST or DELETE.
func (ctl *Controller) ConfirmDeleteLecture(c *gin.Context) {
	taken := c.MustGet(web.LectureContextKey).(*models.Lecture)
	lecture, err := ctl.Lectures.Find(c.Request.Context(), taken.ID)
	if errors.Is(err, services.ErrLectureNotFound) {
		ctl.NotFound(c)
		return
	}
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "delete_lecture.html", gin.H{"Title": "Delete Lecture", "Lecture": lecture})
}

// DeleteLecture runs behind RequireLectureTaker, which has already loaded the lecture.
func (ctl *Controller) DeleteLecture(c *gin.Context) {
	lecture := c.MustGet(web.LectureContextKey).(*models.Lecture)
	err := ctl.Lectures.Delete(c.Request.Context(), lecture.ID)
	if errors.Is(err, services.ErrLectureNotFound) {
		ctl.NotFound(c)
		return
	}
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	log.Printf("[INFO] lecture %d deleted by %s", lecture.ID, web.CurrentUser(c).Email)
	web.Redirect(c, "/")
}

// attendanceSheet loads the lecture named by ?lecture_id= and its batch roster.
// It writes the response itself and returns ok=false when the sheet cannot be shown.
func (ctl *Controller) attendanceSheet(c *gin.Context) (*models.Lecture, []models.Student, bool) {
	id, ok := parseID(c.Query("lecture_id"))
	if !ok {
		ctl.NotFound(c)
		return nil, nil, false
	}
	lecture, err := ctl.Lectures.Find(c.Request.Context(), id)
	if errors.Is(err, services.ErrLectureNotFound) {
		ctl.NotFound(c)
		return nil, nil, false
	}
	if err != nil {
		ctl.serverError(c, err)
		return nil, nil, false
	}

	students, err := ctl.Attendance.BatchStudents(c.Request.Context(), lecture.BatchID)
	if err != nil {
		ctl.serverError(c, err)
		return nil, nil, false
	}
	if len(students) == 0 {
		web.AddFlash(c, web.FlashDanger, "No students found in the selected batch.")
		web.Redirect(c, "/")
		return nil, nil, false
	}
	return lecture, students, true
}

// lectureChoices lists the current teacher's subjects and every batch.
func (ctl *Controller) lectureChoices(c *gin.Context) ([]models.Subject, []models.Batch, error) {
	ctx := c.Request.Context()
	var subjects []models.Subject
	err := ctl.DB.WithContext(ctx).
		Scopes(utils.OwnedBy(web.CurrentUser(c).ID)).
		Order("subject_name asc").
		Find(&subjects).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list subjects: %w", err)
	}
	batches, err := ctl.allBatches(c)
	if err != nil {
		return nil, nil, err
	}
	return subjects, batches, nil
}
