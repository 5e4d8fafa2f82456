package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"attendance-tracker/models"
	"attendance-tracker/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// session keys
	UserSessionKey  = "user_id"
	CSRFSessionKey  = "csrf_token"
	OAuthSessionKey = "oauth_state"

	// gin context keys
	UserContextKey    = "current_user"
	LectureContextKey = "lecture"
)

// flash categories, rendered in this order
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

var flashCategories = []string{FlashSuccess, FlashDanger, FlashInfo}

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates with their helper functions.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": utils.Inc,
		"pct": func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
		"datetime": func(t time.Time) string {
			return t.UTC().Format("02 Jan 2006, 15:04 UTC")
		},
	}).ParseFS(templateFS, "templates/*.html")
}

type Flash struct {
	Category string
	Text     string
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, category, text string) {
	sessions.Default(c).AddFlash(text, category)
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserContextKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// Render executes a page template with the values every page needs: the current
// user, pending flashes, the CSRF token and the current year.
func Render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := sessions.Default(c)

	var flashes []Flash
	for _, cat := range flashCategories {
		for _, f := range session.Flashes(cat) {
			if s, ok := f.(string); ok {
				flashes = append(flashes, Flash{Category: cat, Text: s})
			}
		}
	}
	if err := session.Save(); err != nil {
		log.Printf("[ERROR] save session: %v", err)
	}

	token, _ := session.Get(CSRFSessionKey).(string)
	data["User"] = CurrentUser(c)
	data["Flashes"] = flashes
	data["CSRFToken"] = token
	data["Year"] = time.Now().Year()
	c.HTML(code, name, data)
}

// Redirect saves the session (pending flashes included) and issues a 303.
func Redirect(c *gin.Context, location string) {
	if err := sessions.Default(c).Save(); err != nil {
		log.Printf("[ERROR] save session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Error renders the shared error page.
func Error(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Code": code, "Message": message})
}
