package workers

import (
	"board-lab/contract"
	"board-lab/domain/board"
	"board-lab/errors"
	"board-lab/observability"
	"context"
	"log/slog"

	stderrors "errors"
)

// Ensure *BoardWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*BoardWorker)(nil)

// BoardWorker is the single serialized executor of the board. Every
// submission goes through its command channel, so submissions are totally
// ordered and each one runs to completion before the next begins. There
// must be exactly one BoardWorker per ledger; a pool would break the
// ordering contract.
type BoardWorker struct {
	ledger     *board.Ledger
	commands   chan board.PostMessageCommand
	monitoring *observability.MonitoringManager
	log        *slog.Logger
}

func NewBoardWorker(
	ledger *board.Ledger,
	commands chan board.PostMessageCommand,
	monitoring *observability.MonitoringManager,
	log *slog.Logger) *BoardWorker {
	return &BoardWorker{
		ledger:     ledger,
		commands:   commands,
		monitoring: monitoring,
		log:        log,
	}
}

func (w *BoardWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			result, err := w.ledger.Submit(cmd.Sender, cmd.Content, cmd.Now)
			w.count(err)
			if cmd.Reply != nil {
				// Reply is buffered by the dispatcher, never blocks.
				cmd.Reply <- board.PostReply{Result: result, Err: err}
			}
		}
	}
}

func (w *BoardWorker) count(err error) {
	switch {
	case err == nil:
		w.monitoring.IncrMessagesAccepted()
	case stderrors.Is(err, errors.ErrCooldownActive):
		w.monitoring.IncrCooldownRejections()
	case stderrors.Is(err, errors.ErrEmptyMessage):
		w.monitoring.IncrEmptyRejections()
	case stderrors.Is(err, errors.ErrMessageTooLong):
		w.monitoring.IncrTooLongRejections()
	}
}
