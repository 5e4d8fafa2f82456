package initializers_test

import (
	"testing"

	"attendance-tracker/initializers"
	"attendance-tracker/models"
	"attendance-tracker/testutil"
	"attendance-tracker/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "SMTP_HOST", "SMTP_PORT", "CSRF_DISABLED", "GOOGLE_CLIENT_ID", "DB_PORT", "DB_SSLMODE"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "attendance")

	cfg := initializers.LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.CSRFEnabled)
	assert.Nil(t, cfg.GoogleOauth)
	assert.Equal(t, "host=localhost user=app password=pw dbname=attendance port=5432 sslmode=disable TimeZone=UTC", cfg.DatabaseURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://app@db/attendance")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("CSRF_DISABLED", "true")
	t.Setenv("EMAIL", "office@example.com")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")

	cfg := initializers.LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://app@db/attendance", cfg.DatabaseURL)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, "office@example.com", cfg.MailUser)
	require.NotNil(t, cfg.GoogleOauth)
	assert.Equal(t, "client-id", cfg.GoogleOauth.ClientID)
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := initializers.Config{AdminName: "Root", AdminEmail: "root@example.com", AdminPassword: "secret1"}

	require.NoError(t, initializers.SeedAdmin(db, cfg))
	require.NoError(t, initializers.SeedAdmin(db, cfg))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin)
	assert.True(t, utils.VerifyPassword("secret1", users[0].Password))

	require.NoError(t, initializers.SeedAdmin(db, initializers.Config{}))
}
