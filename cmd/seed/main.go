// Command main runs the database seeder for whisperwall.
package main

import (
	"flag"
	"log"

	"whisperwall/internal/config"
	"whisperwall/internal/database"
	"whisperwall/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numSecrets := flag.Int("secrets", 60, "Number of secrets to create")
	numReplies := flag.Int("replies", 120, "Number of replies to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a YAML preset file instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *preset != "" {
		p, err := seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		if err := p.Apply(db); err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
		log.Println("Preset applied")
		return
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumSecrets:  *numSecrets,
		NumReplies:  *numReplies,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All test users have the password: %s", seed.DefaultPassword)
}
