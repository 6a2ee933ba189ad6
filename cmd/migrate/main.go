package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"taskmanagement/internal/config"
	"taskmanagement/internal/database"
	"taskmanagement/internal/logging"
)

const usage = `usage: migrate [-dir migrations] <command>

commands:
  up            apply all pending migrations
  down [N]      roll back N migrations (default 1)
  force V       mark version V as applied and clear the dirty flag
  version       print the current schema version`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	dir := flag.String("dir", cfg.Migrations.Dir, "directory holding the migration files")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	url := cfg.Database.URL()
	entry := logger.WithField("dir", *dir)

	switch args[0] {
	case "up":
		err = database.MigrateUp(*dir, url)
	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil {
				entry.WithError(err).Fatal("down expects a number of steps")
			}
		}
		err = database.MigrateDown(*dir, url, steps)
	case "force":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(2)
		}
		version, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			entry.WithError(convErr).Fatal("force expects a version number")
		}
		err = database.Force(*dir, url, version)
	case "version":
		v, dirty, verr := database.Version(*dir, url)
		if verr == nil {
			entry.WithField("version", v).WithField("dirty", dirty).Info("schema version")
		}
		err = verr
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		entry.WithError(err).Fatalf("migrate %s failed", args[0])
	}
	entry.Infof("migrate %s done", args[0])
}
