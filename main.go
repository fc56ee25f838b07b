package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"

	"stovemarket/cmd"
	"stovemarket/config"
	"stovemarket/database"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, cancelling...")
		cancel()
	}()

	if err := cmd.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: stovemarket migrate [up|down|status] [args...]")
	}

	cfg := config.Get()
	cmd.ConfigureLogging(cfg)
	opts := database.OptionsFromConfig(cfg)

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp(opts)
	case "down":
		steps := 1
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", os.Args[3], err)
			}
			steps = n
		}
		return database.MigrateDown(opts, steps)
	case "status":
		return database.MigrateStatus(opts)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
