package main

import (
	"flag"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-knowledge/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-knowledge/pkg/config"
)

// Usage: migrate [-steps N] up|down|status
func main() {
	steps := flag.Int("steps", 0, "maximum migrations to apply or roll back (0 = all)")
	flag.Parse()

	direction := flag.Arg(0)
	if direction == "" {
		direction = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}

	switch direction {
	case "up", "down":
		dir := migrate.Up
		if direction == "down" {
			dir = migrate.Down
		}
		log.Printf("🔄 Running migrations %s...", direction)
		n, err := migrate.ExecMax(sqlDB, "postgres", database.Migrations(), dir, *steps)
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("✅ Successfully ran %d migration(s) %s", n, direction)

	case "status":
		records, err := migrate.GetMigrationRecords(sqlDB, "postgres")
		if err != nil {
			log.Fatalf("Failed to read migration records: %v", err)
		}
		if len(records) == 0 {
			log.Println("No migrations applied")
		}
		for _, r := range records {
			log.Printf("%s applied at %s", r.Id, r.AppliedAt.Format("2006-01-02 15:04:05"))
		}

	default:
		log.Printf("unknown command %q (want up, down or status)", direction)
		os.Exit(2)
	}
}
