// Command main runs the database seeder for Bailemos.
package main

import (
	"context"
	"flag"
	"log"

	"bailemos/internal/config"
	"bailemos/internal/database"
	"bailemos/internal/seed"
)

func main() {
	dancers := flag.Int("dancers", 40, "Number of fake dancers to create")
	pending := flag.Int("pending", 3, "Pending enrollments per academy")
	approved := flag.Int("approved", 5, "Approved enrollments per academy")
	bookings := flag.Int("bookings", 2, "Class bookings per dancer")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("rand-seed", 0, "Seed for reproducible fake data (0 = random)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d dancers, %d pending + %d approved enrollments per academy, clean=%v\n",
		*dancers, *pending, *approved, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sum, err := seed.NewSeeder(db, seed.Options{
		Dancers:            *dancers,
		PendingPerAcademy:  *pending,
		ApprovedPerAcademy: *approved,
		BookingsPerDancer:  *bookings,
		Clean:              *shouldClean,
		RandSeed:           *randSeed,
	}).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d academies (%d classes), %d establishments (%d events, %d promotions)",
		sum.Academies, sum.Classes, sum.Establishments, sum.Events, sum.Promotions)
	log.Printf("Seeded %d dancers, %d enrollments, %d bookings", sum.Dancers, sum.Enrollments, sum.Bookings)
	log.Printf("All seeded accounts use the password: %s", seed.DefaultPassword)
}
