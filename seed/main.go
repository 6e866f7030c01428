package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/baesapp/arcade_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		dsn  = flag.String("dsn", "", "Database DSN (overrides DATABASE_URL env var)")
		help = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	database := *dsn
	if database == "" {
		database = os.Getenv("DATABASE_URL")
		if database == "" {
			database = "host=localhost user=postgres password=postgres dbname=arcade_api port=5432 sslmode=disable"
		}
	}

	db, err := gorm.Open(postgres.Open(database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database")

	if err := seeders.NewGameSeeder(db).Seed(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding completed successfully")
}

func showHelp() {
	fmt.Println("Seed the games catalog with starter data")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seed [-dsn <postgres dsn>]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
