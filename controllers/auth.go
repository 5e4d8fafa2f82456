package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"attendance-tracker/models"
	"attendance-tracker/utils"
	"attendance-tracker/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

func (ctl *Controller) ShowRegister(c *gin.Context) {
	web.Render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Register", "Name": "", "Email": "", "IsAdmin": false,
	})
}

// Register creates a user account. Only admins reach it.
func (ctl *Controller) Register(c *gin.Context) {
	var form RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		flashErrors(c, err)
		web.Render(c, http.StatusOK, "register.html", gin.H{
			"Title": "Register", "Name": form.Name, "Email": form.Email, "IsAdmin": form.IsAdmin,
		})
		return
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))

	var existing models.User
	err := ctl.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&existing).Error
	if err == nil {
		web.AddFlash(c, web.FlashDanger, "This email is already registered.")
		web.Render(c, http.StatusOK, "register.html", gin.H{
			"Title": "Register", "Name": form.Name, "Email": form.Email, "IsAdmin": form.IsAdmin,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctl.serverError(c, err)
		return
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	user := models.User{
		Name:     strings.TrimSpace(form.Name),
		Email:    email,
		Password: hash,
		IsAdmin:  form.IsAdmin,
	}
	if err := ctl.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		ctl.serverError(c, err)
		return
	}

	log.Printf("[INFO] user %s registered by %s", user.Email, web.CurrentUser(c).Email)
	web.AddFlash(c, web.FlashSuccess, "Registration successful! You can now log in.")
	ctl.ShowRegister(c)
}

func (ctl *Controller) ShowLogin(c *gin.Context) {
	if web.CurrentUser(c) != nil {
		web.Redirect(c, "/")
		return
	}
	web.Render(c, http.StatusOK, "login.html", gin.H{
		"Title":         "Login",
		"Email":         "",
		"Next":          c.Query("next"),
		"GoogleEnabled": ctl.Config.GoogleOauth != nil,
	})
}

func (ctl *Controller) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		flashErrors(c, err)
		web.Render(c, http.StatusOK, "login.html", gin.H{
			"Title":         "Login",
			"Email":         form.Email,
			"Next":          form.Next,
			"GoogleEnabled": ctl.Config.GoogleOauth != nil,
		})
		return
	}

	var user models.User
	err := ctl.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(form.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		web.AddFlash(c, web.FlashDanger, "User doesn't exist. Consider Registering!")
		web.Redirect(c, "/login")
		return
	}
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	if !utils.VerifyPassword(form.Password, user.Password) {
		web.AddFlash(c, web.FlashDanger, "Wrong Password Entered.")
		web.Redirect(c, "/login")
		return
	}

	ctl.startSession(c, &user, form.Next)
}

func (ctl *Controller) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	web.Redirect(c, "/")
}

// GoogleLogin starts the OAuth flow. Google sign-in only logs in existing users.
func (ctl *Controller) GoogleLogin(c *gin.Context) {
	if ctl.Config.GoogleOauth == nil {
		ctl.NotFound(c)
		return
	}
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(web.OAuthSessionKey, state)
	if err := session.Save(); err != nil {
		ctl.serverError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, ctl.Config.GoogleOauth.AuthCodeURL(state))
}

func (ctl *Controller) GoogleCallback(c *gin.Context) {
	if ctl.Config.GoogleOauth == nil {
		ctl.NotFound(c)
		return
	}
	session := sessions.Default(c)
	state, _ := session.Get(web.OAuthSessionKey).(string)
	session.Delete(web.OAuthSessionKey)
	if state == "" || c.Query("state") != state {
		web.AddFlash(c, web.FlashDanger, "Google sign-in failed. Please try again.")
		web.Redirect(c, "/login")
		return
	}

	email, err := ctl.googleEmail(c, c.Query("code"))
	if err != nil {
		log.Printf("[ERROR] google sign-in: %v", err)
		web.AddFlash(c, web.FlashDanger, "Google sign-in failed. Please try again.")
		web.Redirect(c, "/login")
		return
	}

	var user models.User
	err = ctl.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		web.AddFlash(c, web.FlashDanger, "User doesn't exist. Consider Registering!")
		web.Redirect(c, "/login")
		return
	}
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	ctl.startSession(c, &user, "")
}

func (ctl *Controller) googleEmail(c *gin.Context, code string) (string, error) {
	ctx := c.Request.Context()
	token, err := ctl.Config.GoogleOauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(ctl.Config.GoogleOauth.TokenSource(ctx, token)))
	if err != nil {
		return "", fmt.Errorf("userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return "", errors.New("userinfo has no email")
	}
	return strings.ToLower(info.Email), nil
}

func (ctl *Controller) startSession(c *gin.Context, user *models.User, next string) {
	session := sessions.Default(c)
	session.Set(web.UserSessionKey, user.ID)
	log.Printf("[INFO] user %s logged in", user.Email)
	web.Redirect(c, safeNext(next))
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}
