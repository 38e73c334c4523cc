package main

import (
	"board-lab/repositories"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"WARN"`
	// VIEWER_LIMIT bounds how many records one page shows, newest first
	Limit int `envconfig:"VIEWER_LIMIT" default:"50"`
}

// The viewer renders the archived board newest first, the way the
// front-end displays it. It is read-only presentation glue: the daemon
// keeps the write lock on the database.
func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening if the daemon holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 3. Scan and render
	repository := repositories.NewArchiveRepository(db, logger, &config.Limit)
	entries, _, err := repository.GetRecords(nil)
	if err != nil {
		log.Fatalf("Failed to read archive: %v", err)
	}
	if len(entries) == 0 {
		color.Yellow.Println("The board is empty")
		return
	}

	color.Cyan.Printf("board-lab viewer — %d most recent records\n", len(entries))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Index", "Tick", "Sender", "Lang", "Flags", "Content"})
	rows := lo.Map(entries, func(entry repositories.ArchivedRecord, _ int) []string {
		return []string{
			fmt.Sprintf("%d", entry.Index),
			fmt.Sprintf("%d", entry.At),
			shorten(entry.Sender),
			entry.Language,
			strings.Join(entry.FlaggedTerms, ","),
			entry.Content,
		}
	})
	table.AppendBulk(rows)
	table.Render()
}

func shorten(sender string) string {
	if len(sender) <= 12 {
		return sender
	}
	return sender[:10] + ".."
}
