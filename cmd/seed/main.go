package main

import (
	"context"
	"log"
	"os"
	"time"

	"ecom-support-widget/internal/entity"
	"ecom-support-widget/internal/repository/implementation"
	"ecom-support-widget/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the initial dashboard admin account. Username and password come
// from ADMIN_USERNAME / ADMIN_PASSWORD; existing accounts are left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("Error: ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	repo := implementation.NewAdminUserRepository(db)

	existing, err := repo.FindByUsername(ctx, username)
	if err != nil {
		log.Fatal("Error: Failed to look up admin user:", err)
	}
	if existing != nil {
		log.Printf("Admin user %q already exists, nothing to do", username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash password:", err)
	}

	user := &entity.AdminUser{
		Id:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		log.Fatal("Error: Failed to create admin user:", err)
	}

	log.Printf("Admin user %q created", username)
}
