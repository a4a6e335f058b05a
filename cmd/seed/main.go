package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"creditledger/internal/config"
	"creditledger/internal/db"
	"creditledger/internal/model"
	"creditledger/internal/repository"
)

// Demo users for local development. The director account exercises the
// balance-exemption path; the customers start with known balances.
var demoUsers = []struct {
	Email    string
	Name     string
	Password string
	Credits  int64
	Role     model.Role
}{
	{Email: "director@example.com", Name: "Director", Password: "director-pass", Credits: 0, Role: model.RoleDirector},
	{Email: "alice@example.com", Name: "Alice", Password: "alice-pass-123", Credits: 60, Role: model.RoleCustomer},
	{Email: "bob@example.com", Name: "Bob", Password: "bob-pass-123", Credits: 0, Role: model.RoleCustomer},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.PaymentTransaction{}, &model.Order{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, updated := 0, 0
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), 10)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Email, err)
		}

		existing, err := userRepo.FindByEmail(ctx, u.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check user %s: %v", u.Email, err)
		}

		if existing != nil {
			existing.Name = u.Name
			existing.PasswordHash = string(hash)
			existing.Role = u.Role
			if err := userRepo.Update(ctx, existing); err != nil {
				log.Fatalf("Failed to update user %s: %v", u.Email, err)
			}
			updated++
			continue
		}

		user := &model.User{
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: string(hash),
			Credits:      u.Credits,
			Role:         u.Role,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		created++
	}

	log.Printf("Seed completed: %d created, %d updated", created, updated)
}
