package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/sofaspartan/sofaspartan-backend/config"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/db"
	"github.com/sofaspartan/sofaspartan-backend/pkg/util"
	"gorm.io/gorm"
)

// Seeds the track catalog and creates the artist's admin account.
// Admin credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		fmt.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	existing, err := userRepo.FindByEmail(adminEmail)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to check for existing admin:", err)
	}
	if existing != nil {
		fmt.Printf("Admin account already exists: %s\n", adminEmail)
		return
	}

	hash, err := util.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: hash,
		DisplayName:  "sofaspartan",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	fmt.Printf("Admin account created: %s (id=%d)\n", admin.Email, admin.ID)
}
