package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MonitoringStats aggregates the board metrics for logging and inspection.
type MonitoringStats struct {
	// --- LEDGER METRICS ---
	MessagesAccepted   uint64 `json:"messages_accepted"`
	CooldownRejections uint64 `json:"cooldown_rejections"`
	EmptyRejections    uint64 `json:"empty_rejections"`
	TooLongRejections  uint64 `json:"too_long_rejections"`

	// --- PIPELINE METRICS ---
	EventsDropped uint64 `json:"events_dropped"`
	SinkErrors    uint64 `json:"sink_errors"`
	FlaggedTerms  uint64 `json:"flagged_terms"`

	// --- SYSTEM METRICS ---
	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
}

// MonitoringManager collects real-time counters from the pipeline.
// Counters are atomic so workers never contend on a lock for telemetry.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MonitoringStats

	messagesAccepted   uint64
	cooldownRejections uint64
	emptyRejections    uint64
	tooLongRejections  uint64
	eventsDropped      uint64
	sinkErrors         uint64
	flaggedTerms       uint64
	LastCheck          time.Time
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{
		log:       log,
		LastCheck: time.Now(),
	}
}

func (mm *MonitoringManager) IncrMessagesAccepted() {
	atomic.AddUint64(&mm.messagesAccepted, 1)
}

func (mm *MonitoringManager) IncrCooldownRejections() {
	atomic.AddUint64(&mm.cooldownRejections, 1)
}

func (mm *MonitoringManager) IncrEmptyRejections() {
	atomic.AddUint64(&mm.emptyRejections, 1)
}

func (mm *MonitoringManager) IncrTooLongRejections() {
	atomic.AddUint64(&mm.tooLongRejections, 1)
}

func (mm *MonitoringManager) IncrEventsDropped() {
	atomic.AddUint64(&mm.eventsDropped, 1)
}

func (mm *MonitoringManager) IncrSinkErrors() {
	atomic.AddUint64(&mm.sinkErrors, 1)
}

func (mm *MonitoringManager) AddFlaggedTerms(n int) {
	atomic.AddUint64(&mm.flaggedTerms, uint64(n))
}

// Refresh recomputes the latest snapshot from the counters and the Go
// runtime. Called periodically by the heartbeat worker.
func (mm *MonitoringManager) Refresh() MonitoringStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := MonitoringStats{
		MessagesAccepted:   atomic.LoadUint64(&mm.messagesAccepted),
		CooldownRejections: atomic.LoadUint64(&mm.cooldownRejections),
		EmptyRejections:    atomic.LoadUint64(&mm.emptyRejections),
		TooLongRejections:  atomic.LoadUint64(&mm.tooLongRejections),
		EventsDropped:      atomic.LoadUint64(&mm.eventsDropped),
		SinkErrors:         atomic.LoadUint64(&mm.sinkErrors),
		FlaggedTerms:       atomic.LoadUint64(&mm.flaggedTerms),
		AllocMemMb:         memStats.Alloc / 1024 / 1024,
		NumGC:              memStats.NumGC,
	}

	mm.mu.Lock()
	mm.latestStats = stats
	mm.LastCheck = time.Now()
	mm.mu.Unlock()

	return stats
}

// GetLatest returns the last snapshot computed by Refresh.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
