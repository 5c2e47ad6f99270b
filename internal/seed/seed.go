// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"whisperwall/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumSecrets  int
	NumReplies  int
	ShouldClean bool
}

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "Password123!@#"

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d secrets...", opts.NumUsers, opts.NumSecrets)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	secrets, err := createSecrets(db, users, opts.NumSecrets)
	if err != nil {
		return fmt.Errorf("failed to create secrets: %w", err)
	}
	log.Printf("%d secrets created", len(secrets))

	if err := createReplies(db, users, secrets, opts.NumReplies); err != nil {
		return fmt.Errorf("failed to create replies: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Reply{}, &models.Secret{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		email := fmt.Sprintf("%s.%s%d@%s",
			gofakeit.FirstName(), gofakeit.LastName(), i, gofakeit.DomainName())
		user := models.User{
			Email:    &email,
			Password: string(hashed),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createSecrets(db *gorm.DB, users []models.User, count int) ([]models.Secret, error) {
	if len(users) == 0 {
		return nil, nil
	}
	secrets := make([]models.Secret, 0, count)
	for i := 0; i < count; i++ {
		secret := models.Secret{
			Text:   gofakeit.Sentence(rand.Intn(12) + 4),
			UserID: users[rand.Intn(len(users))].ID,
		}
		if err := db.Create(&secret).Error; err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	return secrets, nil
}

func createReplies(db *gorm.DB, users []models.User, secrets []models.Secret, count int) error {
	if len(users) == 0 || len(secrets) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		reply := models.Reply{
			Text:     gofakeit.Sentence(rand.Intn(8) + 2),
			SecretID: secrets[rand.Intn(len(secrets))].ID,
			AuthorID: users[rand.Intn(len(users))].ID,
		}
		if err := db.Create(&reply).Error; err != nil {
			return err
		}
	}
	return nil
}
