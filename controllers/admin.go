package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"attendance-tracker/models"
	"attendance-tracker/services"
	"attendance-tracker/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (ctl *Controller) ShowAddBatch(c *gin.Context) {
	web.Render(c, http.StatusOK, "batch.html", gin.H{"Title": "Add Batch", "BatchName": ""})
}

func (ctl *Controller) AddBatch(c *gin.Context) {
	var form BatchForm
	if err := c.ShouldBind(&form); err != nil {
		flashErrors(c, err)
		web.Render(c, http.StatusOK, "batch.html", gin.H{"Title": "Add Batch", "BatchName": form.BatchName})
		return
	}
	name := strings.TrimSpace(form.BatchName)
	ctx := c.Request.Context()

	var count int64
	if err := ctl.DB.WithContext(ctx).Model(&models.Batch{}).Where("name = ?", name).Count(&count).Error; err != nil {
		ctl.serverError(c, err)
		return
	}
	if count > 0 {
		web.AddFlash(c, web.FlashDanger, fmt.Sprintf("A batch with the name '%s' already exists.", name))
		web.Redirect(c, "/add-batch")
		return
	}

	batch := models.Batch{Name: name}
	if err := ctl.DB.WithContext(ctx).Create(&batch).Error; err != nil {
		ctl.serverError(c, err)
		return
	}
	web.AddFlash(c, web.FlashSuccess, fmt.Sprintf("Batch '%s' created successfully!", name))
	web.Redirect(c, "/add-student/")
}

func (ctl *Controller) ShowAddStudent(c *gin.Context) {
	batches, err := ctl.allBatches(c)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "student.html", gin.H{
		"Title": "Add Student", "Batches": batches,
		"StudentName": "", "EnrollmentNumber": "", "BatchID": uint(0),
	})
}

func (ctl *Controller) AddStudent(c *gin.Context) {
	batches, err := ctl.allBatches(c)
	if err != nil {
		ctl.serverError(c, err)
		return
	}

	var form StudentForm
	bindErr := c.ShouldBind(&form)
	if bindErr == nil && !hasBatch(batches, form.Batch) {
		bindErr = errNotAChoice
	}
	if bindErr != nil {
		flashChoiceErrors(c, bindErr)
		web.Render(c, http.StatusOK, "student.html", gin.H{
			"Title": "Add Student", "Batches": batches,
			"StudentName": form.StudentName, "EnrollmentNumber": form.EnrollmentNumber, "BatchID": form.Batch,
		})
		return
	}
	ctx := c.Request.Context()

	var existing models.Student
	err = ctl.DB.WithContext(ctx).Where("enrollment_number = ?", form.EnrollmentNumber).First(&existing).Error
	if err == nil {
		web.AddFlash(c, web.FlashDanger, "A student with this enrollment number already exists!")
		web.Redirect(c, "/add-student/")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctl.serverError(c, err)
		return
	}

	student := models.Student{
		StudentName:      strings.TrimSpace(form.StudentName),
		EnrollmentNumber: form.EnrollmentNumber,
		BatchID:          form.Batch,
	}
	if err := ctl.DB.WithContext(ctx).Create(&student).Error; err != nil {
		ctl.serverError(c, err)
		return
	}
	web.AddFlash(c, web.FlashSuccess, "Student added successfully!")
	web.Redirect(c, "/add-student/")
}

// ImportRoster bulk-loads students for a batch from an uploaded CSV.
func (ctl *Controller) ImportRoster(c *gin.Context) {
	batches, err := ctl.allBatches(c)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	batchID, ok := parseID(c.PostForm("batch"))
	if !ok || !hasBatch(batches, batchID) {
		web.AddFlash(c, web.FlashDanger, notAChoiceMessage)
		web.Redirect(c, "/add-student/")
		return
	}

	file, err := c.FormFile("roster_file")
	if err != nil {
		web.AddFlash(c, web.FlashDanger, "Please choose a roster file.")
		web.Redirect(c, "/add-student/")
		return
	}
	f, err := file.Open()
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	defer f.Close()

	res, err := ctl.Roster.Import(c.Request.Context(), batchID, f)
	switch {
	case errors.Is(err, services.ErrRosterHeader):
		web.AddFlash(c, web.FlashDanger, "The roster file needs a name column and an enrollment_number column.")
	case err != nil:
		log.Printf("[ERROR] roster import %s: %v", file.Filename, err)
		web.AddFlash(c, web.FlashDanger, "Could not read the roster file.")
	default:
		web.AddFlash(c, web.FlashSuccess, fmt.Sprintf("Imported %d students, skipped %d rows.", res.Imported, res.Skipped))
	}
	web.Redirect(c, "/add-student/")
}

func (ctl *Controller) allBatches(c *gin.Context) ([]models.Batch, error) {
	var batches []models.Batch
	if err := ctl.DB.WithContext(c.Request.Context()).Order("name asc").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

func hasBatch(batches []models.Batch, id uint) bool {
	for _, b := range batches {
		if b.ID == id {
			return true
		}
	}
	return false
}
