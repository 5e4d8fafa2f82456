package initializers

import (
	"errors"
	"fmt"
	"log"

	"attendance-tracker/models"
	"attendance-tracker/utils"

	"gorm.io/gorm"
)

// SeedAdmin creates the bootstrap admin account from config when it does not exist yet.
func SeedAdmin(db *gorm.DB, cfg Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: hash,
		IsAdmin:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("[INFO] seeded admin account %s", admin.Email)
	return nil
}
