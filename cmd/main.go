package main

import (
	"board-lab/domain/board"
	boarderr "board-lab/errors"
	"board-lab/internal"
	"board-lab/observability"
	"board-lab/repositories"
	"board-lab/runtime"
	"board-lab/runtime/workers"
	"board-lab/services"
	"board-lab/sink"
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the daemon lifecycle, and
// centralizes error reporting so deferred cleanups always execute.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB archive + Bluge index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge index...")
		_ = blugeWriter.Close()
	}()

	// 3. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	monitoring := observability.NewMonitoringManager(log)
	archive := repositories.NewArchiveRepository(db, log, config.LimitRecords)
	searchRepository := repositories.NewSearchRepository(blugeWriter, log, config.SearchLimit)

	orchestrator := runtime.NewOrchestrator(
		log, sup, registry, monitoring,
		config.CooldownTicks, config.MaxContentBytes,
		config.BufferSize, config.SinkTimeout,
	)
	timeline := sink.NewTimeline()
	orchestrator.Add(
		timeline,
		sink.NewArchiveSink(archive, log),
		sink.NewIndexSink(searchRepository, log),
	)
	sup.Add(workers.NewHeartbeatWorker(log, config.MetricInterval, monitoring))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the pipeline
	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}
	boardService := services.NewBoardService(orchestrator)

	// 6. Debug inspector over the archive
	internal.StartDebugServer(db, config.DebugPort, "/inspect", archiveMapper, func() map[string]any {
		stats := monitoring.GetLatest()
		return map[string]any{
			"accepted":  stats.MessagesAccepted,
			"cooldown":  stats.CooldownRejections,
			"flagged":   stats.FlaggedTerms,
			"timeline":  timeline.Len(),
			"refreshed": time.Now().Format(time.RFC822),
		}
	})
	log.Info("Debug inspector started", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))

	// 7. Interactive console. The console is the submission channel here:
	// it assigns the logical timestamps, monotonically non-decreasing.
	go console(ctx, boardService, searchRepository)

	<-ctx.Done()
	orchestrator.Stop()
	return nil
}

// console reads commands from stdin until the context is canceled.
func console(ctx context.Context, svc services.IBoardService, search repositories.ISearchRepository) {
	started := time.Now()
	tick := func() uint64 { return uint64(time.Since(started).Seconds()) }

	color.Cyan.Println("board-lab console — commands: post <sender> <text> | list | cooldown <sender> | search <terms> | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "post":
			if len(fields) < 3 {
				color.Yellow.Println("usage: post <sender> <text>")
				continue
			}
			handlePost(ctx, svc, fields[1], strings.Join(fields[2:], " "), tick())
		case "list":
			for _, r := range svc.ListAll() {
				fmt.Printf("[%d] %s: %s\n", r.Timestamp, r.Sender, r.Content)
			}
		case "cooldown":
			if len(fields) != 2 {
				color.Yellow.Println("usage: cooldown <sender>")
				continue
			}
			sender, err := board.ParseSenderID(fields[1])
			if err != nil {
				color.Red.Println(err)
				continue
			}
			expiry := svc.CooldownExpiry(sender)
			if expiry == 0 {
				fmt.Println("sender never posted")
				continue
			}
			fmt.Printf("cooldown expires at tick %d (now %d)\n", expiry, tick())
		case "search":
			if len(fields) < 2 {
				color.Yellow.Println("usage: search <terms>")
				continue
			}
			hits, err := search.Search(ctx, strings.Join(fields[1:], " "))
			if err != nil {
				color.Red.Println(err)
				continue
			}
			for _, hit := range hits {
				fmt.Printf("%s: %s\n", hit.Sender, hit.Content)
			}
		case "quit", "exit":
			return
		default:
			color.Yellow.Printf("unknown command %q\n", fields[0])
		}
	}
}

func handlePost(ctx context.Context, svc services.IBoardService, rawSender, content string, now uint64) {
	sender, err := board.ParseSenderID(rawSender)
	if err != nil {
		color.Red.Println(err)
		return
	}
	result, err := svc.Post(ctx, sender, content, now)
	if err != nil {
		var cooldown boarderr.CooldownError
		switch {
		case errors.As(err, &cooldown):
			color.Red.Printf("on cooldown, wait %d more ticks\n", cooldown.Remaining)
		case errors.Is(err, boarderr.ErrEmptyMessage):
			color.Red.Println("message is empty")
		case errors.Is(err, boarderr.ErrMessageTooLong):
			color.Red.Println("message is too long")
		default:
			color.Red.Println(err)
		}
		return
	}
	color.Green.Printf("accepted as record #%d at tick %d\n", result.Index, result.Record.Timestamp)
}

// archiveMapper renders one archived record in the debug inspector.
func archiveMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	var entry repositories.ArchivedRecord
	if err := json.Unmarshal(val, &entry); err != nil {
		return row
	}
	row.Index = fmt.Sprintf("%d", entry.Index)
	row.Sender = entry.Sender
	row.Language = entry.Language
	if len(entry.FlaggedTerms) > 0 {
		row.Flags = strings.Join(entry.FlaggedTerms, ",")
	}
	row.Detail = entry.Content
	return row
}
