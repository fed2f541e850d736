package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dayo-ade/uniplan-api/internal/models"
	"github.com/dayo-ade/uniplan-api/internal/repository"
	"github.com/dayo-ade/uniplan-api/pkg/config"
	"github.com/dayo-ade/uniplan-api/pkg/database"
)

// seed-admin bootstraps the first admin account so the API is usable on a
// fresh database.
func main() {
	var (
		email    string
		password string
		fullName string
	)
	flag.StringVar(&email, "email", "admin@uniplan.local", "admin email")
	flag.StringVar(&password, "password", "", "admin password (required)")
	flag.StringVar(&fullName, "name", "Administrator", "admin display name")
	flag.Parse()

	if password == "" {
		log.Fatal("password is required")
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	if existing, err := users.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Fatalf("user %s already exists", email)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin account %s created (id %s)", email, user.ID)
}
