package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher writes audit entries through a fixed set of workers. Entries
// are sharded by user id, so one user's actions are stored in the order they
// were recorded.
type AuditDispatcher struct {
	workers []chan domain.LogEntry
	repo    ports.LogRepository
	log     zerolog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers,
// each with a queue of buffer entries. Non-positive values fall back to defaults.
func NewAuditDispatcher(numWorkers, buffer int, repo ports.LogRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.LogEntry, numWorkers),
		repo:    repo,
		log:     log,
		now:     time.Now,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LogEntry, buffer)
	}
	return d
}

// Start launches the workers. They run until Stop is called.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record queues an entry without blocking. When the worker's queue is full, or
// the dispatcher is stopped, the entry is dropped with a warning.
func (d *AuditDispatcher) Record(entry domain.LogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = d.now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(entry, "dispatcher stopped")
		return
	}

	idx := d.shardIndex(entry.UserID)
	select {
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(entry, "audit queue full")
	}
}

// Stop closes the queues and waits until every queued entry is written or ctx
// expires.
func (d *AuditDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan domain.LogEntry) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for entry := range ch {
		depth.Dec()
		d.write(id, entry)
	}
}

func (d *AuditDispatcher) write(workerID int, entry domain.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, &entry); err != nil {
		metrics.AuditEntriesTotal.WithLabelValues("failed").Inc()
		d.log.Warn().Err(err).
			Str("user_id", entry.UserID).
			Str("action", entry.Action).
			Int("worker_id", workerID).
			Msg("audit log write failed")
		return
	}
	metrics.AuditEntriesTotal.WithLabelValues("written").Inc()
}

func (d *AuditDispatcher) drop(entry domain.LogEntry, reason string) {
	metrics.AuditEntriesTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("user_id", entry.UserID).
		Str("action", entry.Action).
		Msg(reason)
}
