// Command seed populates the database with demo data for local
// development. Pass -users/-recipes to generate a larger synthetic
// dataset on top of the fixed demo set.
package main

import (
	"flag"
	"log"

	"recipehub/internal/config"
	"recipehub/internal/database"
	"recipehub/internal/seed"
)

func main() {
	users := flag.Int("users", 0, "number of synthetic users to create")
	recipes := flag.Int("recipes", 3, "recipes per synthetic user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Demo(db); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	if *users > 0 {
		factory := seed.NewFactory(db)
		if err := factory.Populate(*users, *recipes); err != nil {
			log.Fatalf("Failed to populate synthetic data: %v", err)
		}
		log.Printf("Created %d synthetic users with %d recipes each.", *users, *recipes)
	}
}
