// Command migrate creates the schema and seeds the first admin user.
// It is meant for development and small deployments; larger setups can
// swap in versioned migrations later.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/modules/blog"
	"github.com/sinahmd/ecommerce/internal/modules/catalog"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/modules/payments"
	"github.com/sinahmd/ecommerce/internal/modules/users"
)

func main() {
	adminEmail := flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "admin user to seed (optional)")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "password for the seeded admin")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&users.User{},
		&users.Address{},
		&catalog.Category{},
		&catalog.Product{},
		&orders.Order{},
		&orders.OrderItem{},
		&orders.Transaction{},
		&orders.OrderEvent{},
		&payments.GatewayEvent{},
		&blog.Tag{},
		&blog.Post{},
	)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema up to date")

	if *adminEmail == "" {
		return
	}
	if *adminPassword == "" {
		log.Fatal("admin-password is required when admin-email is set")
	}

	email := strings.ToLower(strings.TrimSpace(*adminEmail))
	var cnt int64
	if err := db.Model(&users.User{}).Where("email = ?", email).Count(&cnt).Error; err != nil {
		log.Fatalf("seed: %v", err)
	}
	if cnt > 0 {
		log.Printf("admin %s already exists, skipping seed", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	now := time.Now()
	admin := users.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         users.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded admin %s", email)
}
