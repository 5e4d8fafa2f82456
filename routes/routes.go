package routes

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"attendance-tracker/controllers"
	"attendance-tracker/middleware"
	"attendance-tracker/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionName    = "attendance_session"
	requestTimeout = 5 * time.Second
)

// SetupRouter wires middleware, templates and every page onto a gin engine.
func SetupRouter(ctl *controllers.Controller) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(requestTimeout))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	secret := ctl.Config.SecretKey
	if secret == "" {
		log.Println("[WARN] using a random session key")
		secret = uuid.NewString() + uuid.NewString()
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   ctl.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(ctl.DB))
	r.Use(middleware.CSRF(ctl.Config.CSRFEnabled, "/send_mail"))

	// public
	r.GET("/", ctl.Home)
	r.GET("/home", ctl.Home)
	r.GET("/older_lectures", ctl.OlderLectures)
	r.GET("/login", ctl.ShowLogin)
	r.POST("/login", ctl.Login)
	r.GET("/auth/google", ctl.GoogleLogin)
	r.GET("/auth/callback", ctl.GoogleCallback)
	r.GET("/attendance/", ctl.ShowReport)
	r.POST("/attendance/", ctl.Report)
	r.GET("/attendance/export", ctl.ExportReport)
	r.GET("/lecture/:lecture_id", ctl.LectureRedirect)
	r.POST("/lecture/:lecture_id", ctl.LectureRedirect)
	r.GET("/about", ctl.About)
	r.GET("/contact", ctl.Contact)
	r.POST("/send_mail", ctl.SendMail)
	r.GET("/health", ctl.Health)

	// logged in
	auth := r.Group("/", middleware.RequireLogin)
	auth.GET("/logout", ctl.Logout)
	auth.GET("/new-lecture", ctl.ShowNewLecture)
	auth.POST("/new-lecture", ctl.NewLecture)
	auth.GET("/mark-attendance", ctl.ShowMarkAttendance)
	auth.POST("/mark-attendance", ctl.MarkAttendance)
	auth.GET("/add-subject/", ctl.ShowAddSubject)
	auth.POST("/add-subject/", ctl.AddSubject)

	// lecture taker
	taker := r.Group("/delete-lecture", middleware.RequireLectureTaker(ctl.DB))
	taker.GET("/:lecture_id", ctl.ConfirmDeleteLecture)
	taker.POST("/:lecture_id", ctl.DeleteLecture)
	taker.DELETE("/:lecture_id", ctl.DeleteLecture)

	// admin
	admin := r.Group("/", middleware.RequireAdmin)
	admin.GET("/register", ctl.ShowRegister)
	admin.POST("/register", ctl.Register)
	admin.GET("/add-batch", ctl.ShowAddBatch)
	admin.POST("/add-batch", ctl.AddBatch)
	admin.GET("/add-student/", ctl.ShowAddStudent)
	admin.POST("/add-student/", ctl.AddStudent)
	admin.POST("/add-student/import", ctl.ImportRoster)

	r.NoRoute(ctl.NotFound)
	return r, nil
}
