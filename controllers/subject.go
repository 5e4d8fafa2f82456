package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"attendance-tracker/models"
	"attendance-tracker/web"

	"github.com/gin-gonic/gin"
)

var errNotAChoice = errors.New("value is not one of the offered choices")

const notAChoiceMessage = "Not a valid choice."

func (ctl *Controller) ShowAddSubject(c *gin.Context) {
	web.Render(c, http.StatusOK, "subject.html", gin.H{"Title": "Add Subject", "SubjectName": ""})
}

// AddSubject creates a subject owned by the current teacher.
func (ctl *Controller) AddSubject(c *gin.Context) {
	var form SubjectForm
	if err := c.ShouldBind(&form); err != nil {
		flashErrors(c, err)
		web.Render(c, http.StatusOK, "subject.html", gin.H{"Title": "Add Subject", "SubjectName": form.SubjectName})
		return
	}

	subject := models.Subject{
		SubjectName: strings.TrimSpace(form.SubjectName),
		TeacherID:   web.CurrentUser(c).ID,
	}
	if err := ctl.DB.WithContext(c.Request.Context()).Create(&subject).Error; err != nil {
		ctl.serverError(c, err)
		return
	}
	web.AddFlash(c, web.FlashSuccess, "Subject created successfully!")
	web.Redirect(c, "/new-lecture")
}

func (ctl *Controller) allSubjects(c *gin.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := ctl.DB.WithContext(c.Request.Context()).Order("subject_name asc").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func hasSubject(subjects []models.Subject, id uint) bool {
	for _, s := range subjects {
		if s.ID == id {
			return true
		}
	}
	return false
}

// flashChoiceErrors flashes binding errors and rejected select values alike.
func flashChoiceErrors(c *gin.Context, err error) {
	if errors.Is(err, errNotAChoice) {
		web.AddFlash(c, web.FlashDanger, notAChoiceMessage)
		return
	}
	flashErrors(c, err)
}
