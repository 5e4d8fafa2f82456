package controllers

import (
	"log"
	"net/http"
	"strconv"

	"attendance-tracker/initializers"
	"attendance-tracker/middleware"
	"attendance-tracker/services"
	"attendance-tracker/utils"
	"attendance-tracker/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controller holds the dependencies every handler needs.
type Controller struct {
	DB     *gorm.DB
	Config initializers.Config
	Mailer utils.Mailer

	Lectures   *services.LectureService
	Attendance *services.AttendanceService
	Roster     *services.RosterService
}

func New(db *gorm.DB, cfg initializers.Config, mailer utils.Mailer) *Controller {
	return &Controller{
		DB:         db,
		Config:     cfg,
		Mailer:     mailer,
		Lectures:   services.NewLectureService(db),
		Attendance: services.NewAttendanceService(db),
		Roster:     services.NewRosterService(db),
	}
}

func (ctl *Controller) serverError(c *gin.Context, err error) {
	log.Printf("[ERROR] id=%s %s %s: %v", c.GetString(middleware.RequestIDKey), c.Request.Method, c.Request.URL.Path, err)
	web.Error(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// NotFound renders the 404 page for unmatched routes.
func (ctl *Controller) NotFound(c *gin.Context) {
	web.Error(c, http.StatusNotFound, "Page not found.")
}

// flashErrors queues one danger flash per validation message.
func flashErrors(c *gin.Context, err error) {
	for _, msg := range utils.ValidationMessages(err) {
		web.AddFlash(c, web.FlashDanger, msg)
	}
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
