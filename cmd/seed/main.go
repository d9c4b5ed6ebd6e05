// Command main runs the database seeder for Waypoint.
package main

import (
	"flag"
	"log"

	"waypoint/internal/config"
	"waypoint/internal/database"
	"waypoint/internal/seed"
)

func main() {
	// Parse command line flags
	numExtra := flag.Int("extra-users", 20, "Number of generated filler users to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixturesPath := flag.String("fixtures", "", "Optional YAML file with extra users and groups")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: 6 demo users + %d filler users, clean=%v\n", *numExtra, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Demo(db, seed.Options{
		NumExtraUsers: *numExtra,
		ShouldClean:   *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if *fixturesPath != "" {
		fx, err := seed.LoadFixtures(*fixturesPath)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		if err := fx.Apply(db); err != nil {
			log.Fatalf("Failed to apply fixtures: %v", err)
		}
		log.Printf("Applied fixtures from %s (%d users, %d groups)", *fixturesPath, len(fx.Users), len(fx.Groups))
	}

	log.Println("All done! Your database is now populated with demo data.")
	log.Println("All demo users share the password: TravelDemo#2025!")
}
