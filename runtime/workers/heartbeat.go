package workers

import (
	"board-lab/contract"
	"board-lab/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HeartbeatWorker)(nil)

// HeartbeatWorker periodically refreshes the monitoring snapshot and logs
// the health of the process (board counters plus RSS/CPU of the daemon).
type HeartbeatWorker struct {
	log        *slog.Logger
	interval   time.Duration
	monitoring *observability.MonitoringManager
}

func NewHeartbeatWorker(
	log *slog.Logger,
	interval time.Duration,
	monitoring *observability.MonitoringManager,
) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:        log,
		interval:   interval,
		monitoring: monitoring,
	}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting board heartbeat worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := w.monitoring.Refresh()

			rss, cpu, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			w.log.Info("Board heartbeat",
				"accepted", stats.MessagesAccepted,
				"cooldown_rejections", stats.CooldownRejections,
				"empty_rejections", stats.EmptyRejections,
				"too_long_rejections", stats.TooLongRejections,
				"events_dropped", stats.EventsDropped,
				"sink_errors", stats.SinkErrors,
				"flagged_terms", stats.FlaggedTerms,
				"ram_bytes", rss,
				"cpu_percent", cpu)
		}
	}
}

// getSelfStats retrieves technical metrics (Memory and CPU) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
