package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "register.html", "login.html", "subject.html", "batch.html", "student.html",
		"lecture.html", "mark_attendance.html", "report.html", "about.html", "contact.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestErrorPage(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", map[string]any{
		"Title": "", "User": nil, "Flashes": []Flash{{Category: FlashDanger, Text: "careful"}},
		"CSRFToken": "", "Year": 2024, "Code": 404, "Message": "Page not found.",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Page not found.")
	assert.Contains(t, buf.String(), `alert-danger`)
	assert.Contains(t, buf.String(), "2024")
}
