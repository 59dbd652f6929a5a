package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/bootstrap"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/config"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/database"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	count := flag.Int("count", 0, "Number of employees to generate (overrides preset)")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("Employee Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize app; seeded records do not trigger welcome emails
	app := bootstrap.NewApp(bootstrap.WithoutNotifications())
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application", err)
		log.Fatal(err)
	}
	fmt.Printf("Data file: %s (%d records)\n", config.DefaultEnvConfig.DATA_FILE_PATH, app.Store.Len())

	seeder := database.NewDataSeeder(app.Store)

	// Execute action
	switch *action {
	case "seed":
		performSeed(ctx, seeder, *preset, *count)

	case "clear":
		performClear(ctx, seeder)

	default:
		fmt.Printf("Unknown action: %s\n", *action)
		flag.PrintDefaults()
		os.Exit(2)
	}

	fmt.Println("\nDone!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, preset string, count int) {
	n := count
	if n > 0 {
		fmt.Printf("Using custom count: %d employees\n", n)
	} else {
		n = database.GetPresetCount(database.SeedPreset(preset))
		fmt.Printf("Using preset: %s (%d employees)\n", preset, n)
	}

	stats, err := seeder.SeedData(ctx, n)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	fmt.Printf("Added %d employees, skipped %d existing, in %v\n", stats.Added, stats.Skipped, stats.Elapsed)
}

func performClear(ctx context.Context, seeder *database.DataSeeder) {
	fmt.Println("This will delete all employee records!")
	fmt.Print("Continue? (yes/no): ")

	response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))

	if response == "yes" || response == "y" {
		removed, err := seeder.ClearData(ctx)
		if err != nil {
			log.Fatalf("Clear failed: %v", err)
		}
		fmt.Printf("Removed %d employees\n", removed)
	} else {
		fmt.Println("Cancelled.")
	}
}
