package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/golang-migrate/migrate/v4"
)

func main() {
	var (
		command = flag.String("command", "", "Migration command: up, down, version, force")
		steps   = flag.Int("steps", 0, "Number of migration steps (for up/down)")
		version = flag.Int("version", 0, "Migration version (for force)")
	)
	flag.Parse()

	if *command == "" {
		fmt.Println("Usage: migrate -command [up|down|version|force] [options]")
		fmt.Println("  up             - Apply pending migrations (all, or -steps N)")
		fmt.Println("  down           - Roll back -steps N migrations (default 1)")
		fmt.Println("  version        - Show current migration version")
		fmt.Println("  force          - Force set migration version (-version N)")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	m, err := database.NewMigrator(cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("Failed to close migrator: %v", errors.Join(srcErr, dbErr))
		}
	}()

	switch *command {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
		report("up", err)

	case "down":
		err = m.Steps(-max(*steps, 1))
		report("down", err)

	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied")
			return
		}
		if err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
		fmt.Printf("Current version: %d (dirty: %t)\n", v, dirty)

	case "force":
		if *version == 0 {
			log.Fatal("Version number required for force command")
		}
		if err := m.Force(*version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		fmt.Printf("Migration version forced to %d\n", *version)

	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}

func report(direction string, err error) {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Println("No migrations to run")
	case err != nil:
		log.Fatalf("Migration %s failed: %v", direction, err)
	default:
		fmt.Printf("Migrations %s applied successfully\n", direction)
	}
}
