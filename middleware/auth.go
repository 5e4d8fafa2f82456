package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"attendance-tracker/models"
	"attendance-tracker/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoadUser resolves the session's user id and stores the user on the context.
// A session pointing at a deleted user is cleared.
func LoadUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		uid, ok := session.Get(web.UserSessionKey).(uint)
		if !ok {
			c.Next()
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).First(&user, uid).Error
		switch {
		case err == nil:
			c.Set(web.UserContextKey, &user)
		case errors.Is(err, gorm.ErrRecordNotFound):
			session.Delete(web.UserSessionKey)
			_ = session.Save()
		default:
			log.Printf("[ERROR] load session user %d: %v", uid, err)
		}
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin(c *gin.Context) {
	if web.CurrentUser(c) == nil {
		web.AddFlash(c, web.FlashInfo, "Please log in to access this page.")
		web.Redirect(c, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.Next()
}

// RequireAdmin allows admins only; other users get 403.
func RequireAdmin(c *gin.Context) {
	user := web.CurrentUser(c)
	if user == nil {
		RequireLogin(c)
		return
	}
	if !user.IsAdmin {
		web.Error(c, http.StatusForbidden, "You do not have permission to access this page.")
		c.Abort()
		return
	}
	c.Next()
}

// RequireLectureTaker loads the lecture named by the :lecture_id parameter and
// allows only the teacher who took it. A missing lecture is 404.
func RequireLectureTaker(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := web.CurrentUser(c)
		if user == nil {
			RequireLogin(c)
			return
		}

		id, err := strconv.ParseUint(c.Param("lecture_id"), 10, 64)
		if err != nil {
			web.Error(c, http.StatusNotFound, "Page not found.")
			c.Abort()
			return
		}
		var lecture models.Lecture
		err = db.WithContext(c.Request.Context()).First(&lecture, uint(id)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.Error(c, http.StatusNotFound, "Page not found.")
			c.Abort()
			return
		}
		if err != nil {
			log.Printf("[ERROR] load lecture %d: %v", id, err)
			web.Error(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
			c.Abort()
			return
		}
		if lecture.TeacherID != user.ID {
			web.Error(c, http.StatusForbidden, "Only the teacher who took this lecture can do that.")
			c.Abort()
			return
		}

		c.Set(web.LectureContextKey, &lecture)
		c.Next()
	}
}
