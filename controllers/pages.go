package controllers

import (
	"fmt"
	"log"
	"net/http"

	"attendance-tracker/web"

	"github.com/gin-gonic/gin"
)

const contactSubject = "New Contact Form Submission"

func (ctl *Controller) About(c *gin.Context) {
	web.Render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

func (ctl *Controller) Contact(c *gin.Context) {
	web.Render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact"})
}

// SendMail forwards a JSON contact submission to the configured mailbox.
func (ctl *Controller) SendMail(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[ERROR] contact form: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing the form submission."})
		return
	}

	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage: %s", req.Name, req.Email, req.Phone, req.Message)
	if err := ctl.Mailer.Send(ctl.Config.MailUser, contactSubject, body); err != nil {
		log.Printf("[ERROR] contact mail: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing the form submission."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Form submission successful!"})
}

// Health reports whether the database answers.
func (ctl *Controller) Health(c *gin.Context) {
	sqlDB, err := ctl.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
