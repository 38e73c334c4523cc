package workers

import (
	"board-lab/domain/board"
	"board-lab/errors"
	"board-lab/observability"
	"context"
	"log/slog"
	"testing"
	"time"

	stderrors "errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestBoardWorker_SubmitsInChannelOrder(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	ledger := board.NewLedger()
	commands := make(chan board.PostMessageCommand, 4)

	worker := NewBoardWorker(ledger, commands, monitoring, log)

	alice, err := board.ParseSenderID("0xa1")
	req.NoError(err)
	bob, err := board.ParseSenderID("0xb2")
	req.NoError(err)

	first := make(chan board.PostReply, 1)
	second := make(chan board.PostReply, 1)
	commands <- board.PostMessageCommand{Sender: alice, Content: "first post", Now: 0, Reply: first}
	commands <- board.PostMessageCommand{Sender: bob, Content: "second post", Now: 5, Reply: second}
	close(commands)

	// When the worker drains its command channel
	err = worker.Run(context.Background())
	req.NoError(err)

	// Then replies carry the ledger indexes in submission order
	r1 := <-first
	req.NoError(r1.Err)
	req.Equal(0, r1.Result.Index)

	r2 := <-second
	req.NoError(r2.Err)
	req.Equal(1, r2.Result.Index)

	stats := monitoring.Refresh()
	req.EqualValues(2, stats.MessagesAccepted)
}

func TestBoardWorker_CountsRejections(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	ledger := board.NewLedger()
	commands := make(chan board.PostMessageCommand, 4)

	worker := NewBoardWorker(ledger, commands, monitoring, log)

	alice, err := board.ParseSenderID("0xa1")
	req.NoError(err)

	accepted := make(chan board.PostReply, 1)
	cooled := make(chan board.PostReply, 1)
	empty := make(chan board.PostReply, 1)
	commands <- board.PostMessageCommand{Sender: alice, Content: "hello", Now: 10, Reply: accepted}
	commands <- board.PostMessageCommand{Sender: alice, Content: "too soon", Now: 20, Reply: cooled}
	commands <- board.PostMessageCommand{Sender: alice, Content: "", Now: 100, Reply: empty}
	close(commands)

	req.NoError(worker.Run(context.Background()))

	req.NoError((<-accepted).Err)

	// Cooldown rejection carries the remaining wait through the reply
	var cooldownErr errors.CooldownError
	r := <-cooled
	req.ErrorAs(r.Err, &cooldownErr)
	req.EqualValues(20, cooldownErr.Remaining)

	req.True(stderrors.Is((<-empty).Err, errors.ErrEmptyMessage))

	stats := monitoring.Refresh()
	req.EqualValues(1, stats.MessagesAccepted)
	req.EqualValues(1, stats.CooldownRejections)
	req.EqualValues(1, stats.EmptyRejections)
}

func TestBoardWorker_StopsOnContextCancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	ledger := board.NewLedger()
	commands := make(chan board.PostMessageCommand)

	worker := NewBoardWorker(ledger, commands, monitoring, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		req.Fail("Worker did not stop on context cancellation")
	}
}
