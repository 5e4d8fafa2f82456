package middleware

import (
	"log"
	"net/http"

	"attendance-tracker/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const csrfHeader = "X-CSRF-Token"

// CSRF issues a per-session token and checks it on state-changing requests.
// The token is read from the csrf_token form field or the X-CSRF-Token header.
func CSRF(enabled bool, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(web.CSRFSessionKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(web.CSRFSessionKey, token)
			if err := session.Save(); err != nil {
				log.Printf("[ERROR] save csrf token: %v", err)
			}
		}

		if !enabled || skip[c.FullPath()] {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.PostForm("csrf_token")
		if sent == "" {
			sent = c.GetHeader(csrfHeader)
		}
		if sent != token {
			web.Error(c, http.StatusBadRequest, "The form expired or the CSRF token is missing. Please try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}
